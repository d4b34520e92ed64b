package cmd

import (
	"fmt"
)

const banner = `
  _____  _       _ _
 |  __ \(_)     | | |
 | |  | |_  __ _| | |_ ___  _ __   ___
 | |  | | |/ _` + "`" + ` | | __/ _ \| '_ \ / _ \
 | |__| | | (_| | | || (_) | | | |  __/
 |_____/|_|\__,_|_|\__\___/|_| |_|\___|

`

func printBanner() {
	fmt.Printf("\x1b[34m%s\x1b[0m", banner)
	fmt.Printf("\x1b[32m  Softphone backend simulator - Version %s\x1b[0m\n\n", Version)
}
