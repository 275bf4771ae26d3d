package main

import (
	"github.com/EDEN0412/techquiz/cmd"

	_ "github.com/lib/pq"
)

func main() {
	cmd.Execute()
}
