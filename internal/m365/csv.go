package m365

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Graph CSV reports are addressed by column header, not position, because
// Microsoft occasionally reorders them between report versions.

type mailboxRow struct {
	UserPrincipalName string
	DisplayName       string
	UsedMB            float64
	QuotaMB           float64
	LastActivityDate  *time.Time
}

type onedriveRow struct {
	OwnerPrincipalName string
	OwnerDisplayName   string
	UsedMB             float64
	TotalMB            float64
}

func parseMailboxReport(data []byte) ([]mailboxRow, error) {
	records, idx, err := readCSV(data)
	if err != nil {
		return nil, fmt.Errorf("mailbox report: %w", err)
	}

	var rows []mailboxRow
	for _, rec := range records {
		upn := field(rec, idx, "User Principal Name")
		if upn == "" {
			continue
		}
		rows = append(rows, mailboxRow{
			UserPrincipalName: upn,
			DisplayName:       field(rec, idx, "Display Name"),
			UsedMB:            bytesToMB(field(rec, idx, "Storage Used (Byte)")),
			QuotaMB:           bytesToMB(field(rec, idx, "Prohibit Send/Receive Quota (Byte)")),
			LastActivityDate:  parseDate(field(rec, idx, "Last Activity Date")),
		})
	}
	return rows, nil
}

func parseOneDriveReport(data []byte) ([]onedriveRow, error) {
	records, idx, err := readCSV(data)
	if err != nil {
		return nil, fmt.Errorf("onedrive report: %w", err)
	}

	var rows []onedriveRow
	for _, rec := range records {
		upn := field(rec, idx, "Owner Principal Name")
		if upn == "" {
			continue
		}
		rows = append(rows, onedriveRow{
			OwnerPrincipalName: upn,
			OwnerDisplayName:   field(rec, idx, "Owner Display Name"),
			UsedMB:             bytesToMB(field(rec, idx, "Storage Used (Byte)")),
			TotalMB:            bytesToMB(field(rec, idx, "Storage Allocated (Byte)")),
		})
	}
	return rows, nil
}

// readCSV strips the UTF-8 BOM Graph prepends and returns the data records
// plus a header index.
func readCSV(data []byte) ([][]string, map[string]int, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("empty report")
	}

	idx := make(map[string]int, len(all[0]))
	for i, h := range all[0] {
		idx[strings.TrimSpace(h)] = i
	}
	return all[1:], idx, nil
}

func field(rec []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func bytesToMB(raw string) float64 {
	if raw == "" {
		return 0
	}
	b, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return b / (1024 * 1024)
}

func parseDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &t
}
