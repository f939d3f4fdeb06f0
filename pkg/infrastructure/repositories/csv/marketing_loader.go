package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sportsprod/erp/pkg/domain/services/marketing"
)

var (
	spendHeader       = []string{"channel_id", "period_id", "amount"}
	conversionsHeader = []string{"channel_id", "period_id", "new_customers", "revenue"}
)

// Loader handles loading marketing data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadSpend loads channel spend from a CSV file
func (l *Loader) LoadSpend(filename string) ([]marketing.Spend, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open spend file %s: %w", filename, err)
	}
	defer file.Close()

	return l.ReadSpend(file)
}

// ReadSpend parses channel_id,period_id,amount rows
func (l *Loader) ReadSpend(r io.Reader) ([]marketing.Spend, error) {
	records, err := readRecords(r, "spend", spendHeader)
	if err != nil {
		return nil, err
	}

	spend := make([]marketing.Spend, 0, len(records))
	for i, record := range records {
		s, err := parseSpend(record)
		if err != nil {
			return nil, fmt.Errorf("spend CSV row %d: %w", i+2, err)
		}
		spend = append(spend, s)
	}
	return spend, nil
}

// LoadConversions loads channel conversions from a CSV file
func (l *Loader) LoadConversions(filename string) ([]marketing.Conversions, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open conversions file %s: %w", filename, err)
	}
	defer file.Close()

	return l.ReadConversions(file)
}

// ReadConversions parses channel_id,period_id,new_customers,revenue rows
func (l *Loader) ReadConversions(r io.Reader) ([]marketing.Conversions, error) {
	records, err := readRecords(r, "conversions", conversionsHeader)
	if err != nil {
		return nil, err
	}

	conversions := make([]marketing.Conversions, 0, len(records))
	for i, record := range records {
		c, err := parseConversions(record)
		if err != nil {
			return nil, fmt.Errorf("conversions CSV row %d: %w", i+2, err)
		}
		conversions = append(conversions, c)
	}
	return conversions, nil
}

// readRecords reads every row, validates the header and returns the data rows
func readRecords(r io.Reader, kind string, expectedHeader []string) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("%s CSV must have header and at least one data row", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
	}

	return records[1:], nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		// Spreadsheet exports often start with a UTF-8 byte order mark
		if strings.ToLower(strings.TrimSpace(strings.TrimPrefix(actual[i], "\ufeff"))) != col {
			return false
		}
	}

	return true
}

func parseSpend(record []string) (marketing.Spend, error) {
	channel, period, err := parseKeys(record)
	if err != nil {
		return marketing.Spend{}, err
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	if err != nil {
		return marketing.Spend{}, fmt.Errorf("invalid amount: %s", record[2])
	}
	if amount < 0 {
		return marketing.Spend{}, fmt.Errorf("amount cannot be negative: %v", amount)
	}

	return marketing.Spend{ChannelID: channel, PeriodID: period, Amount: amount}, nil
}

func parseConversions(record []string) (marketing.Conversions, error) {
	channel, period, err := parseKeys(record)
	if err != nil {
		return marketing.Conversions{}, err
	}

	customers, err := strconv.Atoi(strings.TrimSpace(record[2]))
	if err != nil {
		return marketing.Conversions{}, fmt.Errorf("invalid new_customers: %s", record[2])
	}
	if customers < 0 {
		return marketing.Conversions{}, fmt.Errorf("new_customers cannot be negative: %d", customers)
	}

	revenue := 0.0
	if raw := strings.TrimSpace(record[3]); raw != "" {
		revenue, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return marketing.Conversions{}, fmt.Errorf("invalid revenue: %s", record[3])
		}
	}

	return marketing.Conversions{
		ChannelID:    channel,
		PeriodID:     period,
		NewCustomers: customers,
		Revenue:      revenue,
	}, nil
}

func parseKeys(record []string) (channel, period string, err error) {
	channel = strings.TrimSpace(record[0])
	period = strings.TrimSpace(record[1])
	if channel == "" {
		return "", "", fmt.Errorf("channel_id cannot be empty")
	}
	if period == "" {
		return "", "", fmt.Errorf("period_id cannot be empty")
	}
	return channel, period, nil
}
