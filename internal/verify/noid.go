package verify

import "strings"

// CheckNoID applies the configured casing policy to a NOID literal.
func CheckNoID(literal string, strategy NoIDStrategy) error {
	switch strategy {
	case NoIDCaseInsensitive:
		return nil
	case NoIDUpperCase:
		if literal != strings.ToUpper(literal) {
			return noIDCase("upper", literal)
		}
		return nil
	case NoIDLowerCase:
		if literal != strings.ToLower(literal) {
			return noIDCase("lower", literal)
		}
		return nil
	default: // NoIDNever
		return noIDForbidden()
	}
}
