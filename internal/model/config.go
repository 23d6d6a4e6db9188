package model

// Config is the root of a configuration document. Sequence order is
// significant and preserved through import and export.
type Config struct {
	ListenAddress string      `json:"listenAddressSingleHTTPFrontend,omitempty" yaml:"listenAddressSingleHTTPFrontend,omitempty"`
	LogLevel      string      `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
	Actions       []Action    `json:"actions" yaml:"actions"`
	Entities      []Entity    `json:"entities" yaml:"entities"`
	Dashboards    []Dashboard `json:"dashboards" yaml:"dashboards"`
}

// Action is a runnable command exposed as a button. Duplicate IDs are not
// rejected.
type Action struct {
	ID        string   `json:"id" yaml:"id,omitempty"`
	Title     string   `json:"title" yaml:"title"`
	Shell     string   `json:"shell" yaml:"shell,omitempty"`
	Icon      string   `json:"icon" yaml:"icon,omitempty"`
	Timeout   *int     `json:"timeout,omitempty" yaml:"timeout,omitempty"` // seconds
	Entity    string   `json:"entity,omitempty" yaml:"entity,omitempty"`
	Hidden    bool     `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Arguments []Fields `json:"arguments,omitempty" yaml:"arguments,omitempty"`
}

// Entity binds a name to a file of entity data.
type Entity struct {
	File string `json:"file" yaml:"file"`
	Name string `json:"name" yaml:"name"`
}

// Dashboard is a titled, ordered layout of components.
type Dashboard struct {
	Title    string               `json:"title" yaml:"title"`
	Contents []DashboardComponent `json:"contents" yaml:"contents"`
}

// DashboardComponent references an action by ID (not checked for existence),
// or groups nested components under a title. Keys other than the four known
// ones (entity, cssClass, icon and so on) are kept in Extra, in document
// order, and written back after the known keys.
type DashboardComponent struct {
	Type     string               `json:"type,omitempty" yaml:"type,omitempty"`
	ID       string               `json:"id,omitempty" yaml:"id,omitempty"`
	Title    string               `json:"title,omitempty" yaml:"title,omitempty"`
	Contents []DashboardComponent `json:"contents,omitempty" yaml:"contents,omitempty"`
	Extra    Fields               `json:"-" yaml:"-"`
}

// Normalize replaces nil sequences with empty ones so that absent keys render
// as [] rather than null.
func (c *Config) Normalize() {
	if c.Actions == nil {
		c.Actions = []Action{}
	}
	if c.Entities == nil {
		c.Entities = []Entity{}
	}
	if c.Dashboards == nil {
		c.Dashboards = []Dashboard{}
	}
	for i := range c.Dashboards {
		if c.Dashboards[i].Contents == nil {
			c.Dashboards[i].Contents = []DashboardComponent{}
		}
	}
}

// Summary counts the top-level sequences.
type Summary struct {
	Actions    int `json:"actions"`
	Entities   int `json:"entities"`
	Dashboards int `json:"dashboards"`
}

// Summarize returns the sequence counts of c. A nil config counts as empty.
func (c *Config) Summarize() Summary {
	if c == nil {
		return Summary{}
	}
	return Summary{
		Actions:    len(c.Actions),
		Entities:   len(c.Entities),
		Dashboards: len(c.Dashboards),
	}
}
