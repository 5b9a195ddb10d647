package alerts

import (
	"strconv"
	"strings"

	"github.com/farmwatch/farmwatch/pkg/types"
)

// evalCondition evaluates a rule condition string against a record.
//
// Supported expressions (field operator value):
//
//	money_per_sec > 1000000
//	money_per_sec < 100
//	server_name == Farm A
//	players == 0/8
//	author == Unknown
//
// Returns (fires bool, triggering value float64). Returns (false, 0) if the
// expression cannot be parsed or the field is unknown.
func evalCondition(cond string, rec types.Record) (bool, float64) {
	parts := strings.Fields(cond)
	if len(parts) < 3 {
		return false, 0
	}
	field, op := parts[0], parts[1]
	// Equality targets may contain spaces ("Farm A"); everything after the
	// operator is the right-hand side.
	rhs := strings.Join(parts[2:], " ")

	switch field {
	case "server_name":
		if op == "==" {
			return rec.ServerName == rhs, 0
		}
		return false, 0

	case "players":
		if op == "==" {
			return strings.TrimSpace(rec.Players) == rhs, 0
		}
		return false, 0

	case "author":
		if op == "==" {
			return rec.Author == rhs, 0
		}
		return false, 0

	case "money_per_sec":
		threshold, err := strconv.ParseFloat(rhs, 64)
		if err != nil {
			return false, 0
		}
		v := float64(rec.MoneyPerSec)
		return compareFloat(v, op, threshold), v

	default:
		return false, 0
	}
}

func compareFloat(v float64, op string, threshold float64) bool {
	switch op {
	case ">":
		return v > threshold
	case ">=":
		return v >= threshold
	case "<":
		return v < threshold
	case "<=":
		return v <= threshold
	case "==":
		return v == threshold
	default:
		return false
	}
}
