package gol

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// PromptGenerations returns a prompt that asks on out and reads one line
// from in. Non-numeric and non-positive answers are configuration errors.
func PromptGenerations(in io.Reader, out io.Writer) func() (int, error) {
	return func() (int, error) {
		fmt.Fprintln(out, "-----------------------Conway's Game Of Life-----------------------")
		fmt.Fprint(out, "Enter the number of Generations you wish to simulate (integer) : ")
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			return 0, fmt.Errorf("%w: reading generation count: %v", ErrConfig, err)
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			return 0, fmt.Errorf("%w: generation count %q is not an integer", ErrConfig, strings.TrimSpace(line))
		}
		if err := checkGenerations(n); err != nil {
			return 0, err
		}
		fmt.Fprintln(out)
		return n, nil
	}
}
