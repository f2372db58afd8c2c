package main

import "github.com/bathymetrix/rudics/internal/cmd"

func main() {
	cmd.Execute()
}
