package gcal

import (
	"fmt"
	"os"
	"strings"

	"google.golang.org/api/calendar/v3"
)

// OAuthScopes contains only Calendar scopes
var OAuthScopes = []string{
	calendar.CalendarScope,
}

// LoadServiceAccountJSON returns service-account credentials from the inline JSON
// value if set, otherwise from the file. Both empty means no credentials.
func LoadServiceAccountJSON(inline, file string) ([]byte, error) {
	if inline = strings.TrimSpace(inline); inline != "" {
		return []byte(inline), nil
	}

	if file == "" {
		return nil, nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account file: %w", err)
	}
	return data, nil
}
