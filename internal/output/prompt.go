package output

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// readLine reads one line from stdin and trims surrounding whitespace.
func readLine() (string, error) {
	response, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return strings.TrimSpace(response), nil
}

// ConfirmPrompt asks for confirmation before an irreversible action, such
// as broadcasting a signed transaction. Anything but y/yes declines.
func ConfirmPrompt(message string) (bool, error) {
	fmt.Printf("%s [y/N]: ", message)
	response, err := readLine()
	if err != nil {
		return false, err
	}
	response = strings.ToLower(response)
	return response == "y" || response == "yes", nil
}

// StringPrompt asks for a string input.
func StringPrompt(message string) (string, error) {
	fmt.Printf("%s: ", message)
	return readLine()
}
