//go:build tools

package tools

// No tool imports are tracked here. mockery is used as an installed binary;
// run `mockery` from the module root to regenerate pkg/log/mocks from
// .mockery.yaml.
