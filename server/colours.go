package server

import "fmt"

// Terminal colours for the development route log
const (
	red     = "\033[31m"
	green   = "\033[32m"
	yellow  = "\033[33m"
	blue    = "\033[34m"
	magenta = "\033[35m"
	cyan    = "\033[36m"
	gray    = "\033[90m"

	resetColour = "\033[0m"
)

var methodColours = map[string]string{
	"GET":    green,
	"POST":   blue,
	"PUT":    cyan,
	"DELETE": yellow,
	"PATCH":  magenta,
}

// colouredMethod pads an HTTP method for the route log. Unknown methods and
// bare paths are gray.
func colouredMethod(method string) string {
	colour, ok := methodColours[method]
	if !ok {
		colour = gray
	}
	return colour + fmt.Sprintf(" %-7s", method) + resetColour
}
