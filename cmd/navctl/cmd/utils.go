package cmd

import (
	"bufio"
	"fmt"
	"os"
)

// confirmIfExists checks whether path exists, and if it does, asks the
// user for confirmation before proceeding. It returns true if path
// doesn't exist, or if the user answered yes to msg. If ok is false or
// err is not nil, the caller should abort.
func confirmIfExists(path, msg string) (ok bool, err error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, err
	}
	return askForConfirmation(msg), nil
}

// askForConfirmation prints msg and reads a y/n answer from stdin.
// Pressing ENTER alone defaults to no.
func askForConfirmation(msg string) bool {
	fmt.Println(msg)
	reader := bufio.NewReader(os.Stdin)
	defaultInput := byte('N')

	for {
		input, _ := reader.ReadString('\n')
		c := string([]byte(input)[0])[0]
		if c == 10 {
			c = defaultInput
		}
		switch c {
		case 'Y', 'y':
			return true
		case 'N', 'n':
			return false
		}
	}
}

func check(err error) {
	if err != nil {
		fmt.Printf("error, %v\n", err)
		os.Exit(-1)
	}
}

func parseXY(s string) (x, y int32, err error) {
	var fx, fy float64
	if _, err := fmt.Sscanf(s, "%f,%f", &fx, &fy); err != nil {
		return 0, 0, fmt.Errorf("parse %q as \"x,y\": %w", s, err)
	}
	return int32(fx), int32(fy), nil
}
