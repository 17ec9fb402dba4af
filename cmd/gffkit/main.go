// cmd/gffkit/main.go
package main

import (
	"gffkit/internal/app"
	"gffkit/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
