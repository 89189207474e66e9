package archive

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ulikunitz/xz"

	"github.com/rustyeddy/fxbook/trade"
)

var csvHeader = []string{
	"trade_reference", "trade_date", "value_date", "direction",
	"base_currency", "quote_currency", "base_amount", "exchange_rate", "quote_amount",
	"counterparty", "trader", "notes", "status",
}

// WriteCSV writes trades to w, header first.
func WriteCSV(w io.Writer, trades []trade.Trade) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range trades {
		if err := cw.Write([]string{
			t.Reference,
			t.TradeDate.Format("2006-01-02"),
			t.ValueDate.Format("2006-01-02"),
			string(t.Direction),
			t.BaseCurrency,
			t.QuoteCurrency,
			t.BaseAmount.StringFixed(trade.AmountScale),
			t.ExchangeRate.StringFixed(trade.RateScale),
			t.QuoteAmount.StringFixed(trade.AmountScale),
			t.Counterparty,
			t.Trader,
			t.Notes,
			string(t.Status),
		}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportFile writes trades as CSV to path. A path ending in .xz gets an
// xz-compressed stream.
func ExportFile(path string, trades []trade.Trade) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	var w io.Writer = f
	var xzw *xz.Writer
	if strings.HasSuffix(path, ".xz") {
		xzw, err = xz.NewWriter(f)
		if err != nil {
			return fmt.Errorf("xz writer: %w", err)
		}
		w = xzw
	}

	if err := WriteCSV(w, trades); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	if xzw != nil {
		if err := xzw.Close(); err != nil {
			return fmt.Errorf("close xz stream: %w", err)
		}
	}
	return f.Close()
}

// importHeader is the column set expected from a bulk-import CSV. No
// reference column: imported trades are booked through the service and
// get freshly allocated references.
var importHeader = []string{
	"trade_date", "value_date", "direction", "base_currency", "quote_currency",
	"base_amount", "exchange_rate", "counterparty", "trader", "notes",
}

// ParseCSV reads booking inputs from a bulk-import CSV.
func ParseCSV(r io.Reader) ([]trade.Input, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) != len(importHeader) {
		return nil, fmt.Errorf("bad header: want %d columns, got %d", len(importHeader), len(header))
	}
	for i, col := range importHeader {
		if header[i] != col {
			return nil, fmt.Errorf("bad header: column %d is %q, want %q", i, header[i], col)
		}
	}

	var out []trade.Input
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		in, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, in)
	}
	return out, nil
}

func parseRecord(rec []string) (trade.Input, error) {
	var in trade.Input
	var err error

	if in.TradeDate, err = time.ParseInLocation("2006-01-02", rec[0], time.UTC); err != nil {
		return in, fmt.Errorf("trade_date: %w", err)
	}
	if in.ValueDate, err = time.ParseInLocation("2006-01-02", rec[1], time.UTC); err != nil {
		return in, fmt.Errorf("value_date: %w", err)
	}
	in.Direction = trade.Direction(rec[2])
	in.BaseCurrency = rec[3]
	in.QuoteCurrency = rec[4]
	if in.BaseAmount, err = decimal.NewFromString(rec[5]); err != nil {
		return in, fmt.Errorf("base_amount: %w", err)
	}
	if in.ExchangeRate, err = decimal.NewFromString(rec[6]); err != nil {
		return in, fmt.Errorf("exchange_rate: %w", err)
	}
	in.Counterparty = rec[7]
	in.Trader = rec[8]
	in.Notes = rec[9]
	return in, nil
}
