// Command crudserver serves the inventory sample API generated by crudforge.
package main

// Build-time variables set via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	Execute()
}
