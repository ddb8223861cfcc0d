package commands

import (
	"fmt"
	"io"
	"strings"

	classifierService "github.com/prateekro/trayme-guard/internal/classifier/service"
)

// MaxInputBytes bounds the text read from stdin by classify and mask.
const MaxInputBytes = 1 << 20

func readInput(reader io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(reader, MaxInputBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if len(data) > MaxInputBytes {
		return "", fmt.Errorf("input exceeds %d bytes", MaxInputBytes)
	}
	return string(data), nil
}

// RunClassify reports the sensitive categories found in the input text.
func RunClassify(classifier classifierService.Classifier, streams IOTuple, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	text, err := readInput(streams.Reader)
	if err != nil {
		return err
	}

	categories := classifier.DetectAll(text)
	names := make([]string, 0, len(categories))
	for _, category := range categories {
		names = append(names, string(category))
	}

	severity, found := classifier.HighestSeverity(text)

	if format == "json" {
		result := map[string]any{
			"categories":  names,
			"should_blur": classifier.ShouldBlurContent(text),
		}
		if found {
			result["highest_severity"] = severity.String()
		}
		return writeJSON(streams.Writer, result)
	}

	if !found {
		_, _ = fmt.Fprintln(streams.Writer, "No sensitive content detected")
		return nil
	}
	_, _ = fmt.Fprintf(streams.Writer, "Categories: %s\n", strings.Join(names, ", "))
	_, _ = fmt.Fprintf(streams.Writer, "Highest severity: %s\n", severity)
	return nil
}

// RunMask writes the input text with every sensitive span masked.
func RunMask(classifier classifierService.Classifier, streams IOTuple) error {
	text, err := readInput(streams.Reader)
	if err != nil {
		return err
	}

	_, err = io.WriteString(streams.Writer, classifier.Mask(text))
	return err
}
