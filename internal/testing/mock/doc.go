// Package mock provides in-process MCP tool servers for tests and manual
// connector checks.
//
// A Server is built from ToolConfig values, either in code or from a YAML
// file:
//
//	tools:
//	  - name: echo
//	    description: Echo the arguments back
//	  - name: slow
//	    description: Answers after a delay
//	    response: done
//	    delay: 2s
//
// It can be served over SSE on a local test listener (StartSSE) or over
// stdio (ServeStdio), which is what the hidden "toolhub mock-server" command
// does. HangingServer accepts connections and never answers, which is useful
// for exercising timeouts.
package mock
