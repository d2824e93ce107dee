package dialog

type State string

const (
	StateIdle State = "idle"

	// Registration states are derived from the onboarding step key:
	// "reg:" + step, e.g. "reg:name", "reg:photo".
	RegPrefix = "reg:"

	// File upload
	StateUploadFile     State = "up:file"
	StateUploadCategory State = "up:cat"
)

type Payload map[string]any

type Item struct {
	ChatID  int64
	State   State
	Payload Payload
}

// GetString reads a string value out of a payload.
func GetString(p Payload, key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
