package main

import "github.com/02loveslollipop/minimundos-dashboard/services/api/cmd"

func main() {
	cmd.Execute()
}
