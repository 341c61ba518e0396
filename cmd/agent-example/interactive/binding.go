package interactive

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/mash-protocol/agent-go/pkg/agent"
	"github.com/mash-protocol/agent-go/pkg/examples"
)

// ErrNotNumeric is returned for arithmetic on a non-numeric agent.
var ErrNotNumeric = errors.New("agent is not numeric")

// binding gives the shell string-level access to a typed agent.
type binding interface {
	Value() string
	Set(s string) error
	Add(s string) error
	Step(up bool) error
	Watch(name string, w io.Writer) agent.SubscriptionID
	Unwatch(id agent.SubscriptionID)
	Subscribers() int
}

type valueBinding[T comparable] struct {
	a     *agent.Agent[T]
	parse func(string) (T, error)

	// Set for numeric agents only.
	add  func(x T)
	step func(up bool)
}

func (b *valueBinding[T]) Value() string {
	return b.a.String()
}

func (b *valueBinding[T]) Set(s string) error {
	v, err := b.parse(s)
	if err != nil {
		return err
	}
	b.a.Set(v)
	return nil
}

func (b *valueBinding[T]) Add(s string) error {
	if b.add == nil {
		return ErrNotNumeric
	}
	x, err := b.parse(s)
	if err != nil {
		return err
	}
	b.add(x)
	return nil
}

func (b *valueBinding[T]) Step(up bool) error {
	if b.step == nil {
		return ErrNotNumeric
	}
	b.step(up)
	return nil
}

func (b *valueBinding[T]) Watch(name string, w io.Writer) agent.SubscriptionID {
	return b.a.Subscribe(func(v T) {
		fmt.Fprintf(w, "  [watch] %s = %v\n", name, v)
	})
}

func (b *valueBinding[T]) Unwatch(id agent.SubscriptionID) {
	b.a.Unsubscribe(id)
}

func (b *valueBinding[T]) Subscribers() int {
	return b.a.Count()
}

func bind[T comparable](a *agent.Agent[T], parse func(string) (T, error)) *valueBinding[T] {
	return &valueBinding[T]{a: a, parse: parse}
}

func bindNumber[T agent.Number](a *agent.Agent[T], parse func(string) (T, error)) *valueBinding[T] {
	b := bind(a, parse)
	b.add = func(x T) { agent.AddAssign(a, x) }
	b.step = func(up bool) {
		if up {
			agent.Inc(a)
		} else {
			agent.Dec(a)
		}
	}
	return b
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func parseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// heatPumpBindings returns the shell bindings for hp in display order.
func heatPumpBindings(hp *examples.HeatPump) ([]string, map[string]binding) {
	bindings := map[string]binding{
		"setpoint": bindNumber(hp.Setpoint, parseFloat),
		"room":     bindNumber(hp.RoomTemperature, parseFloat),
		"mode":     bind(hp.Mode, examples.ParseMode),
		"running":  bind(hp.Running, strconv.ParseBool),
		"power":    bindNumber(hp.Power, parseInt64),
		"limit":    bindNumber(hp.ConsumptionLimit, parseInt64),
	}
	order := []string{"setpoint", "room", "mode", "running", "power", "limit"}
	return order, bindings
}
