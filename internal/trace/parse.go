package trace

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rohmanhakim/astar-state/internal/location"
)

/*
Trace format

One operation per line, fields separated by whitespace. Blank lines and
everything after '#' are ignored.

	open   X Y PREV TOTAL [PX PY]
	close  X Y
	min
	closed X Y
	count
	path   X Y
	block  X Y
*/

// Parse reads a whole trace. It stops at the first malformed line.
func Parse(r io.Reader) ([]Op, error) {
	var ops []Op
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(stripComment(scanner.Text()))
		if len(fields) == 0 {
			continue
		}
		op, err := parseLine(lineNo, fields)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	if err := scanner.Err(); err != nil {
		return nil, &TraceError{
			Line:    lineNo,
			Message: err.Error(),
			Cause:   ErrCauseReadFailure,
			Err:     err,
		}
	}
	return ops, nil
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

func parseLine(lineNo int, fields []string) (Op, error) {
	kind := OpKind(strings.ToLower(fields[0]))
	args := fields[1:]

	switch kind {
	case OpMin, OpCount:
		if err := expectArgs(lineNo, kind, args, 0); err != nil {
			return Op{}, err
		}
		return NewOp(kind, lineNo, location.Location{}), nil

	case OpClose, OpClosed, OpPath, OpBlock:
		if err := expectArgs(lineNo, kind, args, 2); err != nil {
			return Op{}, err
		}
		loc, err := parseLocation(lineNo, kind, args[0], args[1])
		if err != nil {
			return Op{}, err
		}
		return NewOp(kind, lineNo, loc), nil

	case OpOpen:
		if len(args) != 4 && len(args) != 6 {
			return Op{}, syntaxError(lineNo, kind, "expected X Y PREV TOTAL [PX PY], got %d fields", len(args))
		}
		loc, err := parseLocation(lineNo, kind, args[0], args[1])
		if err != nil {
			return Op{}, err
		}
		previousCost, err := parseCost(lineNo, kind, "PREV", args[2])
		if err != nil {
			return Op{}, err
		}
		totalCost, err := parseCost(lineNo, kind, "TOTAL", args[3])
		if err != nil {
			return Op{}, err
		}
		var predecessor *location.Location
		if len(args) == 6 {
			p, err := parseLocation(lineNo, kind, args[4], args[5])
			if err != nil {
				return Op{}, err
			}
			predecessor = &p
		}
		return NewOpenOp(lineNo, loc, previousCost, totalCost, predecessor), nil

	default:
		return Op{}, &TraceError{
			Line:    lineNo,
			Op:      fields[0],
			Message: fmt.Sprintf("%q", fields[0]),
			Cause:   ErrCauseUnknownOp,
		}
	}
}

func expectArgs(lineNo int, kind OpKind, args []string, n int) error {
	if len(args) != n {
		return syntaxError(lineNo, kind, "expected %d fields, got %d", n, len(args))
	}
	return nil
}

func parseLocation(lineNo int, kind OpKind, xs, ys string) (location.Location, error) {
	x, err := strconv.Atoi(xs)
	if err != nil {
		return location.Location{}, syntaxError(lineNo, kind, "invalid X %q", xs)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return location.Location{}, syntaxError(lineNo, kind, "invalid Y %q", ys)
	}
	return location.New(x, y), nil
}

// parseCost accepts any float except NaN.
func parseCost(lineNo int, kind OpKind, field, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, syntaxError(lineNo, kind, "invalid %s %q", field, s)
	}
	return v, nil
}

func syntaxError(lineNo int, kind OpKind, format string, args ...any) *TraceError {
	return &TraceError{
		Line:    lineNo,
		Op:      string(kind),
		Message: fmt.Sprintf(format, args...),
		Cause:   ErrCauseSyntax,
	}
}
