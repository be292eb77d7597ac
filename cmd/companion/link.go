package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"barface/tickos/dict"
	"barface/tickos/proto"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// maxText is the longest value the watch stores; one byte is the terminator.
const maxText = proto.SyncValueBytes - 1

var errTooLong = errors.New("value too long")

var sendCmd = &cobra.Command{
	Use:   "send TEXT...",
	Short: "Send one status line",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, closeOut, err := openOut(cmd)
		if err != nil {
			return err
		}
		defer closeOut()

		sent, err := writeStatus(w, key, strings.Join(args, " "), truncate)
		if err != nil {
			return err
		}
		printStatus("✓", fmt.Sprintf("sent %q", sent), color.FgGreen)
		return nil
	},
}

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Send each line read from stdin",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, closeOut, err := openOut(cmd)
		if err != nil {
			return err
		}
		defer closeOut()

		n, err := stream(cmd.InOrStdin(), w, key, truncate, func(line string, err error) {
			printStatus("⚠", fmt.Sprintf("skipped %q: %v", line, err), color.FgYellow)
		})
		printStatus("✓", fmt.Sprintf("sent %d lines", n), color.FgGreen)
		return err
	},
}

func openOut(cmd *cobra.Command) (io.Writer, func(), error) {
	if outPath == "-" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.OpenFile(outPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening link: %w", err)
	}
	return f, func() { f.Close() }, nil
}

// fit returns text as it will be stored, or errTooLong.
func fit(text string, truncate bool) (string, error) {
	if len(text) <= maxText {
		return text, nil
	}
	if !truncate {
		return "", fmt.Errorf("%w: %d bytes, limit %d", errTooLong, len(text), maxText)
	}
	cut := maxText
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut], nil
}

// writeStatus writes one frame holding text under key and returns the text sent.
func writeStatus(w io.Writer, key uint32, text string, truncate bool) (string, error) {
	text, err := fit(text, truncate)
	if err != nil {
		return "", err
	}
	if err := dict.WriteFrame(w, []dict.Tuple{dict.CString(key, text)}); err != nil {
		return "", err
	}
	return text, nil
}

// stream sends every line of r. Lines that do not fit are passed to skip and
// left out. It returns the number of frames written.
func stream(r io.Reader, w io.Writer, key uint32, truncate bool, skip func(string, error)) (int, error) {
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		_, err := writeStatus(w, key, line, truncate)
		if errors.Is(err, errTooLong) {
			if skip != nil {
				skip(line, err)
			}
			continue
		}
		if err != nil {
			return n, err
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return n, fmt.Errorf("reading input: %w", err)
	}
	return n, nil
}
