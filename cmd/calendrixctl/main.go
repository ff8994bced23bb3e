// Command calendrixctl runs the scheduling assistant offline: the date and time
// normalizers, a terminal chat against the configured backends, and the booking log.
package main

import (
	"fmt"
	"os"

	"github.com/omriShneor/calendrix/internal/config"
)

func main() {
	if err := newRootCmd(config.LoadFromEnv()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
