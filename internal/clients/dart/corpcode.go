package dart

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/jmkang/stockscope/internal/domain"
)

// corpCodeFile is the CORPCODE.xml document inside the registry's zip
// snapshot.
type corpCodeFile struct {
	XMLName xml.Name      `xml:"result"`
	List    []corpCodeRow `xml:"list"`
}

type corpCodeRow struct {
	CorpCode  string `xml:"corp_code"`
	CorpName  string `xml:"corp_name"`
	StockCode string `xml:"stock_code"`
}

// ListCompanies downloads the bulk corporate registry snapshot and
// returns the listed companies (rows with a ticker). The market segment
// is not part of the snapshot; it is enriched later via GetCompanyInfo.
func (c *Client) ListCompanies(ctx context.Context) ([]domain.CompanyRecord, error) {
	blob, err := c.getWithRetry(ctx, "/corpCode.xml", url.Values{})
	if err != nil {
		return nil, err
	}

	records, err := parseCorpCodeZip(blob)
	if err != nil {
		return nil, err
	}

	c.log.Info().Int("companies", len(records)).Msg("Loaded corporate registry snapshot")
	return records, nil
}

func parseCorpCodeZip(blob []byte) ([]domain.CompanyRecord, error) {
	zr, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		return nil, fmt.Errorf("dart: corp code snapshot is not a zip archive: %w", err)
	}

	var doc corpCodeFile
	found := false
	for _, f := range zr.File {
		if !strings.EqualFold(f.Name, "CORPCODE.xml") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("dart: failed to open %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("dart: failed to read %s: %w", f.Name, err)
		}
		if err := xml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("dart: malformed corp code xml: %w", err)
		}
		found = true
		break
	}
	if !found {
		return nil, fmt.Errorf("dart: CORPCODE.xml missing from snapshot")
	}

	records := make([]domain.CompanyRecord, 0, len(doc.List))
	for _, row := range doc.List {
		ticker := strings.TrimSpace(row.StockCode)
		if ticker == "" {
			// Unlisted filer, not useful for the dashboard.
			continue
		}
		records = append(records, domain.CompanyRecord{
			Code:   strings.TrimSpace(row.CorpCode),
			Name:   strings.TrimSpace(row.CorpName),
			Ticker: ticker,
		})
	}
	return records, nil
}
