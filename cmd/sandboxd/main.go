// sandboxd is a development sandbox provisioner implementing the wire
// protocol the toolgate sandbox client speaks. Each session is a throwaway
// working directory; commands run locally under the session's timeout. It is
// a stand-in for a hosted provisioner, not an isolation boundary.
package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	listen := flag.String("listen", ":8070", "http listen address")
	authToken := flag.String("auth-token", "", "optional shared token for http api")
	workDir := flag.String("work-dir", "", "base directory for sessions (default: system temp)")
	flag.Parse()

	if err := runHTTP(*listen, *authToken, *workDir); err != nil {
		fmt.Fprintln(os.Stderr, "sandboxd error:", err)
		os.Exit(1)
	}
}
