package compatdex

// Option is a function that configures a Client instance.
type Option func(*Client) error

// WithTracker configures the issue-tracker collaborator.
func WithTracker(t Tracker) Option {
	return func(c *Client) error {
		c.tracker = t
		return nil
	}
}

// WithStore configures the persistence collaborator.
func WithStore(s Storage) Option {
	return func(c *Client) error {
		c.store = s
		return nil
	}
}
