package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
)

// JSONOutput appends one JSON document per line to
// <base>/<folder>/<topic>/<partition>/data.json.
type JSONOutput struct {
	basePath string
	folder   string
	mu       sync.Mutex
	files    map[string]*os.File
}

func NewJSONOutput(basePath, folder string) *JSONOutput {
	return &JSONOutput{
		basePath: basePath,
		folder:   folder,
		files:    make(map[string]*os.File),
	}
}

func (j *JSONOutput) WriteMessage(topic string, msg []byte) error {
	event, eventTime, err := decodeEvent(msg)
	if err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	fullPath, err := partitionDir(j.basePath, j.folder, topic, eventTime)
	if err != nil {
		return err
	}
	fileKey := fmt.Sprintf("%s_%s", topic, partitionPath(eventTime))
	file, ok := j.files[fileKey]
	if !ok {
		file, err = os.OpenFile(filepath.Join(fullPath, "data.json"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		j.files[fileKey] = file
	}

	jsonData, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := file.Write(jsonData); err != nil {
		return err
	}
	_, err = file.WriteString("\n")
	return err
}

func (j *JSONOutput) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	var lastErr error
	for key, file := range j.files {
		if err := file.Close(); err != nil {
			lastErr = err
		}
		delete(j.files, key)
	}
	return lastErr
}

// CSVOutput appends rows to <base>/<folder>/<topic>/<partition>/data.csv.
// The header is the sorted key set of the first event written to a new
// file.
type CSVOutput struct {
	basePath string
	folder   string
	mu       sync.Mutex
	files    map[string]*os.File
	writers  map[string]*csv.Writer
	headers  map[string][]string
}

func NewCSVOutput(basePath, folder string) *CSVOutput {
	return &CSVOutput{
		basePath: basePath,
		folder:   folder,
		files:    make(map[string]*os.File),
		writers:  make(map[string]*csv.Writer),
		headers:  make(map[string][]string),
	}
}

func (c *CSVOutput) WriteMessage(topic string, msg []byte) error {
	event, eventTime, err := decodeEvent(msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	fullPath, err := partitionDir(c.basePath, c.folder, topic, eventTime)
	if err != nil {
		return err
	}
	fileKey := fmt.Sprintf("%s_%s", topic, partitionPath(eventTime))
	csvWriter, ok := c.writers[fileKey]
	if !ok {
		filePath := filepath.Join(fullPath, "data.csv")
		_, statErr := os.Stat(filePath)
		isNew := os.IsNotExist(statErr)

		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		csvWriter = csv.NewWriter(file)
		c.files[fileKey] = file
		c.writers[fileKey] = csvWriter

		headers := getHeaders(event)
		c.headers[fileKey] = headers
		if isNew {
			if err := csvWriter.Write(headers); err != nil {
				return err
			}
		}
	}

	row := make([]string, len(c.headers[fileKey]))
	for i, header := range c.headers[fileKey] {
		if value, ok := event[header]; ok {
			row[i] = csvValue(value)
		}
	}
	if err := csvWriter.Write(row); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

func csvValue(value interface{}) string {
	switch v := value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	case string:
		return v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}

func getHeaders(event map[string]interface{}) []string {
	headers := make([]string, 0, len(event))
	for key := range event {
		headers = append(headers, key)
	}
	sort.Strings(headers)
	return headers
}

func (c *CSVOutput) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var lastErr error
	for key, csvWriter := range c.writers {
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil {
			lastErr = err
		}
		if err := c.files[key].Close(); err != nil {
			lastErr = err
		}
	}
	c.writers = make(map[string]*csv.Writer)
	c.files = make(map[string]*os.File)
	return lastErr
}
