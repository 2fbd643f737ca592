package utils

import (
	"fmt"
	"time"
)

func TimeTrack(start time.Time, name string) {
	fmt.Printf("%s took %s\n", name, time.Since(start))
}

func VerbosePrint(format string, a ...interface{}) (n int, err error) {
	if Opts().Verbose() {
		return fmt.Printf(format, a...)
	}
	return 0, nil
}

// CanColorize gates a colorization function on the -no-colorize flag.
func CanColorize(col func(...interface{}) string) func(...interface{}) string {
	if opts.noColorize {
		return func(is ...interface{}) string {
			return fmt.Sprintf(repeatFmt(len(is)), is...)
		}
	}
	return col
}

func repeatFmt(n int) (s string) {
	for i := 0; i < n; i++ {
		s += "%s"
	}
	return
}
