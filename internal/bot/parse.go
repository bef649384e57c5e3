package bot

import (
	"fmt"
	"strings"

	"github.com/boomerok2001-cpu/boomerbot/internal/model"
)

const actionToggle = "toggle"

// ToggleData returns the callback payload that toggles topic t.
func ToggleData(t model.Topic) string {
	return actionToggle + ":" + t.Key()
}

// ParseCallbackData splits callback data of the form <action>:<topic>.
func ParseCallbackData(data string) (string, model.Topic, error) {
	action, key, ok := strings.Cut(data, ":")
	if !ok || action == "" {
		return "", 0, fmt.Errorf("malformed callback data %q", data)
	}
	if action != actionToggle {
		return "", 0, fmt.Errorf("unknown callback action %q", action)
	}
	topic, ok := model.ParseTopic(key)
	if !ok {
		return "", 0, fmt.Errorf("unknown topic %q", key)
	}
	return action, topic, nil
}
