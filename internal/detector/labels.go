package detector

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/snapsightai/snapsight/internal/predictions"
)

// ParseLabels reads a whitespace-delimited label file where each line is
// "<class_index> <cx> <cy> <width> <height>" and returns the labels in file
// order. Blank lines are skipped; malformed lines are errors.
func ParseLabels(r io.Reader) ([]predictions.Label, error) {
	var labels []predictions.Label
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 5 {
			return nil, fmt.Errorf("label line %d: expected 5 fields, got %d", line, len(fields))
		}
		index, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("label line %d: class index: %w", line, err)
		}
		name, ok := ClassName(index)
		if !ok {
			return nil, fmt.Errorf("label line %d: unknown class index %d", line, index)
		}
		coords := make([]float64, 4)
		for i, field := range fields[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("label line %d: coordinate %d: %w", line, i+1, err)
			}
			coords[i] = v
		}
		labels = append(labels, predictions.Label{
			Class:  name,
			CX:     coords[0],
			CY:     coords[1],
			Width:  coords[2],
			Height: coords[3],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}
	return labels, nil
}

// ClassCount is one distinct class and how many labels carried it.
type ClassCount struct {
	Class string
	Count int
}

// CountByClass groups labels by class name, preserving first-seen order.
func CountByClass(labels []predictions.Label) []ClassCount {
	indexOf := make(map[string]int, len(labels))
	var counts []ClassCount
	for _, label := range labels {
		if i, ok := indexOf[label.Class]; ok {
			counts[i].Count++
			continue
		}
		indexOf[label.Class] = len(counts)
		counts = append(counts, ClassCount{Class: label.Class, Count: 1})
	}
	return counts
}

// FormatCounts renders counts as one "<Capitalized class>: <count>" line per
// class, each line newline-terminated, in the order given.
func FormatCounts(counts []ClassCount) string {
	var b strings.Builder
	for _, c := range counts {
		b.WriteString(capitalize(c.Class))
		b.WriteString(": ")
		b.WriteString(strconv.Itoa(c.Count))
		b.WriteString("\n")
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
