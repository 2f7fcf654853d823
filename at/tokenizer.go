package at

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
)

// Splitter is used for tokenizing responses of a plant-watering node. It uses
// the signature of bufio.SplitFunc so it can be directly used with bufio.Scanner.
//
// The node terminates every response line with CRLF, so the input is split
// on CRLF only. A lone LF stays part of the token.
//
// The atEOF parameter indicates whether any more data will be available.
// When true, any remaining data is returned as the final token.
func Splitter(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.Index(data, []byte(CRLF)); i >= 0 {
		return i + len(CRLF), data[0:i], nil
	}

	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

var _ bufio.SplitFunc = Splitter

// Classify identifies the nature of a response line
func Classify(line string) ResponseType {
	switch line {
	case OK, ERROR:
		return TypeFinal
	default:
		return TypeData
	}
}

// ParsePump extracts the duration argument of an AT+PUMP=<int> command.
//
// The argument is scanned like a C "%d" conversion: leading white space is
// skipped, an optional sign is accepted and the longest run of decimal digits
// is converted. Anything after the digits is ignored. The value must fit in 32
// bits. It reports false when the line is not a pump command or carries no
// number.
func ParsePump(line string) (int, bool) {
	arg, found := strings.CutPrefix(line, CmdPumpPrefix)
	if !found {
		return 0, false
	}

	arg = strings.TrimLeft(arg, " \t\n\v\f\r")

	end := 0
	if end < len(arg) && (arg[end] == '+' || arg[end] == '-') {
		end++
	}
	digits := end
	for end < len(arg) && arg[end] >= '0' && arg[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	v, err := strconv.ParseInt(arg[:end], 10, 32)
	if err != nil {
		return 0, false
	}
	return int(v), true
}

// PumpCommand formats the AT+PUMP=<int> command for a duration in milliseconds.
func PumpCommand(millis int) string {
	return CmdPumpPrefix + strconv.Itoa(millis)
}
