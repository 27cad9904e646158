package reddit

import (
	"fmt"
	"net/url"
	"strings"
)

// ExtractUsername resolves a bare username or a profile URL like
// https://www.reddit.com/user/name/ into the username.
func ExtractUsername(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("empty username")
	}

	if !strings.Contains(input, "/") {
		return strings.TrimPrefix(input, "u/"), nil
	}

	u, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid profile URL: %w", err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, part := range parts {
		if (part == "user" || part == "u") && i+1 < len(parts) {
			return parts[i+1], nil
		}
	}

	return "", fmt.Errorf("no username in %q; expected https://www.reddit.com/user/<name>/", input)
}
