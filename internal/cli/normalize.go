// Package cli rewrites raw arguments into the form the flag parser expects.
package cli

import (
	"strconv"
	"strings"
)

const (
	targetNone = ""
	targetNice = "--nice"
	targetPID  = "--pid"
)

// flags whose value is the following token.
var valueFlags = map[string]bool{
	"-m": true, "--match": true,
	"-i": true, "--interval": true,
	"-l": true, "--logfile": true,
	"--config": true,
}

// Normalize turns bare tokens into explicit --nice/--pid flags so that
// "-p 1 2 3" targets three processes and "-n -5" is read as a niceness.
// Bare tokens seen before any -p, or after a niceness has its value, are
// process ids. Tokens after "--" are
// left alone.
func Normalize(args []string) []string {
	out := make([]string, 0, len(args))
	pending := targetNone
	// flagWaiting holds a -n/-p token that has not received a value yet.
	flagWaiting := ""

	flush := func() {
		if flagWaiting != "" {
			out = append(out, flagWaiting)
			flagWaiting = ""
		}
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			flush()
			return append(out, args[i:]...)

		case arg == "-n" || arg == "--nice":
			flush()
			pending, flagWaiting = targetNice, arg

		case arg == "-p" || arg == "--pid":
			flush()
			pending, flagWaiting = targetPID, arg

		case isBare(arg, pending):
			target := pending
			if target == targetNone {
				target = targetPID
			}
			out = append(out, target+"="+arg)
			flagWaiting = ""
			// A niceness takes one value; later bare tokens are pids again.
			if target == targetNice {
				pending = targetNone
			}

		default:
			flush()
			out = append(out, arg)
			pending = targetOf(arg)
			if valueFlags[arg] && i+1 < len(args) {
				i++
				out = append(out, args[i])
			}
		}
	}
	flush()
	return out
}

func isBare(arg, pending string) bool {
	if !strings.HasPrefix(arg, "-") || arg == "-" {
		return true
	}
	if pending == targetNice {
		if _, err := strconv.Atoi(arg); err == nil {
			return true
		}
	}
	return false
}

// targetOf recognises smooshed and --pid=value forms so bare pids that
// follow them keep accumulating. A smooshed niceness already carries its
// single value.
func targetOf(arg string) string {
	if strings.HasPrefix(arg, "--pid=") || strings.HasPrefix(arg, "-p") && !strings.HasPrefix(arg, "--") {
		return targetPID
	}
	return targetNone
}
