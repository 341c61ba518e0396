package agent_test

import (
	"fmt"

	"github.com/mash-protocol/agent-go/pkg/agent"
)

func ExampleAgent_SetExcluding() {
	setpoint := agent.New(21.0, agent.WithName("setpoint"))

	var clamp agent.SubscriptionID
	clamp = setpoint.Subscribe(func(v float64) {
		if v > 28 {
			setpoint.SetExcluding(28, clamp)
		}
	})
	setpoint.Subscribe(func(v float64) {
		fmt.Println("display:", v)
	})

	setpoint.Set(24)
	setpoint.Set(35)
	fmt.Println("setpoint:", setpoint.Get())

	// Output:
	// display: 24
	// display: 28
	// display: 28
	// setpoint: 28
}

func ExampleAddAssign() {
	count := agent.New(0)
	count.Subscribe(func(v int) { fmt.Println("count is now", v) })

	agent.AddAssign(count, 2)
	agent.AddAssign(count, 0)
	agent.Inc(count)

	// Output:
	// count is now 2
	// count is now 3
}
