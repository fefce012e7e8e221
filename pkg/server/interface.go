/*
Package server implements msgpack IPC for word completion.

Clients write msgpack-encoded requests to stdin and read msgpack-encoded
responses from stdout, one response per request, in order. The first value
written by the server is a status message announcing it is ready:

	{"status": "ready", "c": 48213}

A request carries an ID and an action. An empty action is a completion:

	{"id": "req_001", "p": "ame", "l": 24}

Suggestions come back in ascending key order, ranked from 1:

	{"id": "req_001", "s": [{"w": "amenity", "r": 1}, {"w": "america", "r": 2}], "c": 2, "t": 145}

The time taken is in microseconds. Other actions:

	{"id": "add_001", "a": "add", "w": ["wordtrie", "patricia"]}
	{"id": "stats_001", "a": "stats"}
	{"id": "cfg_001", "a": "config", "cfg": {"max_limit": 30, "filter": false}}

A config request without changes reports the current server settings. When
the server was started with a config file, accepted changes are saved to it.

Failed requests are answered with a CompletionError holding an HTTP-like
status code.
*/
package server

// Request actions.
const (
	ActionComplete = ""
	ActionAdd      = "add"
	ActionStats    = "stats"
	ActionConfig   = "config"
)

// Request is any client message. Fields unused by the action are ignored.
type Request struct {
	ID     string   `msgpack:"id"`
	Action string   `msgpack:"a,omitempty"`
	Prefix string   `msgpack:"p"`
	Limit  int      `msgpack:"l,omitempty"`
	Words  []string `msgpack:"w,omitempty"`
	// Config is read by ActionConfig only.
	Config *ConfigUpdate `msgpack:"cfg,omitempty"`
}

// ConfigUpdate lists server settings to change. Nil fields are kept.
type ConfigUpdate struct {
	MaxLimit     *int  `msgpack:"max_limit,omitempty"`
	MinPrefix    *int  `msgpack:"min_prefix,omitempty"`
	MaxPrefix    *int  `msgpack:"max_prefix,omitempty"`
	EnableFilter *bool `msgpack:"filter,omitempty"`
}

// CompletionSuggestion - minimal suggestion response
type CompletionSuggestion struct {
	Word string `msgpack:"w"`
	Rank uint16 `msgpack:"r"`
}

// CompletionResponse - completion response
type CompletionResponse struct {
	ID          string                 `msgpack:"id"`
	Suggestions []CompletionSuggestion `msgpack:"s"`
	Count       int                    `msgpack:"c"`
	TimeTaken   int64                  `msgpack:"t"`
}

// AddResponse reports how many of the sent words were new.
type AddResponse struct {
	ID    string `msgpack:"id"`
	Added int    `msgpack:"n"`
	Total int    `msgpack:"c"`
}

// StatsResponse carries the completer counters.
type StatsResponse struct {
	ID    string         `msgpack:"id"`
	Stats map[string]int `msgpack:"st"`
}

// ConfigResponse carries the server settings in effect after a config
// request.
type ConfigResponse struct {
	ID           string `msgpack:"id"`
	Status       string `msgpack:"status"`
	MaxLimit     int    `msgpack:"max_limit"`
	MinPrefix    int    `msgpack:"min_prefix"`
	MaxPrefix    int    `msgpack:"max_prefix"`
	EnableFilter bool   `msgpack:"filter"`
}

// StatusMessage is sent once the server is ready to read requests.
type StatusMessage struct {
	Status string `msgpack:"status"`
	Words  int    `msgpack:"c"`
}

// CompletionError holds basic error information for failed requests
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
