package importer

import (
	"regexp"
	"strings"
)

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	// An amount line: optional sign, digits, optional two decimals after a
	// comma. Interior spaces (thousand separators) are stripped first.
	amountPattern = regexp.MustCompile(`^-?\d+(,\d{2})?$`)
)

// AutoFormat regroups a loose multi-line paste, where date, label and amount
// each occupy their own line, into one delimited row per transaction. Lines
// classify as date, amount, or label; a completed date/label/amount triple
// emits a Marker-delimited row.
//
// A date line starts a new triple and becomes the current date; the current
// date carries over after a row is emitted, so repeated same-day entries can
// be pasted without restating the date. Leftover lines that never complete a
// triple (balance rows like "SALDO") are discarded.
//
// Lines that already contain a delimiter pass through untouched, which makes
// the pre-pass a fixed point: formatting its own output changes nothing.
func AutoFormat(raw string) string {
	var (
		out         []string
		currentDate string
		label       string
	)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.ContainsAny(line, "\t"+Marker) || strings.Contains(line, ", ") {
			out = append(out, line)
			currentDate, label = "", ""
			continue
		}

		switch classifyLine(line) {
		case lineDate:
			currentDate = line
			label = ""
		case lineAmount:
			if currentDate == "" || label == "" {
				continue
			}
			out = append(out, currentDate+Marker+label+Marker+line)
			label = ""
		default:
			label = line
		}
	}

	return strings.Join(out, "\n")
}

type lineKind int

const (
	lineLabel lineKind = iota
	lineDate
	lineAmount
)

func classifyLine(line string) lineKind {
	if datePattern.MatchString(line) {
		return lineDate
	}
	compact := strings.ReplaceAll(line, " ", "")
	if amountPattern.MatchString(compact) {
		return lineAmount
	}
	return lineLabel
}
