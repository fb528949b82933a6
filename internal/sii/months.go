package sii

import (
	"fmt"
	"strings"
)

// MonthCase selects how month names are cased in section identifiers
type MonthCase string

const (
	// MonthCaseCapitalized renders "mes_Enero"
	MonthCaseCapitalized MonthCase = "capitalized"
	// MonthCaseLower renders "mes_enero"
	MonthCaseLower MonthCase = "lower"
)

const sectionPrefix = "mes_"

var monthNames = [12]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// ParseMonthCase validates a casing name coming from configuration
func ParseMonthCase(s string) (MonthCase, error) {
	switch MonthCase(strings.ToLower(strings.TrimSpace(s))) {
	case MonthCaseCapitalized, "":
		return MonthCaseCapitalized, nil
	case MonthCaseLower:
		return MonthCaseLower, nil
	default:
		return "", fmt.Errorf("unknown month case %q (want %q or %q)", s, MonthCaseCapitalized, MonthCaseLower)
	}
}

// MonthName returns the Spanish name of month (1-12) in the given casing
func MonthName(month int, c MonthCase) (string, error) {
	if month < 1 || month > 12 {
		return "", fmt.Errorf("invalid month %d", month)
	}
	name := monthNames[month-1]
	if c == MonthCaseLower {
		return name, nil
	}
	return strings.ToUpper(name[:1]) + name[1:], nil
}

// SectionID returns the id of the div holding a month's table, e.g. "mes_Enero"
func SectionID(month int, c MonthCase) (string, error) {
	name, err := MonthName(month, c)
	if err != nil {
		return "", err
	}
	return sectionPrefix + name, nil
}
