package health

import "context"

// ConfigChecker reports down while a required piece of configuration is
// missing. The service keeps serving so the problem shows up in readiness
// instead of a crash loop.
type ConfigChecker struct {
	name     string
	validate func() error
}

func NewConfigChecker(name string, validate func() error) *ConfigChecker {
	return &ConfigChecker{name: name, validate: validate}
}

func (c *ConfigChecker) Name() string {
	return c.name
}

func (c *ConfigChecker) Check(_ context.Context) Result {
	if err := c.validate(); err != nil {
		return down(err.Error())
	}
	return up()
}
