package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gookit/color"
)

const logoASCII = ` _______ _     _ ______  __   _ _______ _______       _    _  _____  _     _
 |______ |     | |_____] | \  | |______    |           \  /  |     |  \___/
 ______| |_____| |_____] |  \_| |______    |    _____   \/   |_____| _/   \_`

const onlineASCII = `  _____  __   _        _____ __   _ _______
 |     | | \  | |        |   | \  | |______
 |_____| |  \_| |_____ __|__ |  \_| |______`

func printLogo() {
	color.New(color.FgCyan).Println(logoASCII)
	fmt.Println()
}

func promptUsername(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "your username: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", fmt.Errorf("read username: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// showIntro plays the decorative startup sequence. Pure theater; disable
// with VOX_INTRO=false.
func showIntro(group string, port int) {
	say := func(delay time.Duration, line string) {
		time.Sleep(delay)
		fmt.Println(line)
	}
	say(300*time.Millisecond, fmt.Sprintf("RECEIVER    >>> ONLINE!    LISTENING ON:    %s:%d", group, port))
	say(20*time.Millisecond, fmt.Sprintf("BROADCASTER >>> ONLINE!    BROADCASTING ON: %s:%d", group, port))
	say(150*time.Millisecond, "setting up auxiliary networking systems...")
	say(12*time.Millisecond, "launching workers...")
	say(5*time.Millisecond, "jacking in...")
	say(100*time.Millisecond, "connecting to imperial vox channels...")
	say(80*time.Millisecond, "negotiating connection terms with NetWatch...")
	say(60*time.Millisecond, "turning on stylized neon advertisement in a filthy back alley...")
	time.Sleep(100 * time.Millisecond)
	color.New(color.FgGreen).Println(onlineASCII)
	fmt.Println()
}
