package session

import (
	"fmt"
	"strings"
)

// Strategy selects where session payloads live.
type Strategy uint8

const (
	// StrategyDefault stores everything in the signed cookie.
	StrategyDefault Strategy = iota
	// StrategyCookieOnly stores everything in the signed cookie.
	StrategyCookieOnly
	// StrategyInMemory keeps users in a process-local adapter.Memory.
	StrategyInMemory
	// StrategyCustomAdapter delegates to a host-supplied adapter.
	StrategyCustomAdapter
)

// ParseStrategy parses the text form used in configuration files and
// environment variables.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return StrategyDefault, nil
	case "in-cookie-only":
		return StrategyCookieOnly, nil
	case "in-memory":
		return StrategyInMemory, nil
	case "in-custom-db":
		return StrategyCustomAdapter, nil
	default:
		return StrategyDefault, fmt.Errorf("unknown session strategy %q", s)
	}
}

func (s Strategy) String() string {
	switch s {
	case StrategyDefault:
		return "default"
	case StrategyCookieOnly:
		return "in-cookie-only"
	case StrategyInMemory:
		return "in-memory"
	case StrategyCustomAdapter:
		return "in-custom-db"
	default:
		return fmt.Sprintf("strategy(%d)", uint8(s))
	}
}

// UsesAdapter reports whether the strategy reads users from an adapter.
func (s Strategy) UsesAdapter() bool {
	return s == StrategyInMemory || s == StrategyCustomAdapter
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if s == StrategyDefault {
		return []byte{}, nil
	}
	if s > StrategyCustomAdapter {
		return nil, fmt.Errorf("unknown session strategy %d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
