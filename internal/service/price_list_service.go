package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/ruda-paints/internal/constants"
	"github.com/ruda-paints/internal/models"
	"github.com/ruda-paints/internal/repository"

	"github.com/xuri/excelize/v2"
)

const (
	csvContentType   = "text/csv; charset=utf-8"
	excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// priceListHeader 两种导出格式共用的列
var priceListHeader = []string{"Product Name", "Category", "Brand", "Size", "Price (KES)", "Description"}

// PriceListService 价目表
type PriceListService struct {
	repo         repository.PaintRepository
	filenameBase string
	sheetName    string
	now          func() time.Time
}

// NewPriceListService 创建价目表服务
func NewPriceListService(repo repository.PaintRepository, filenameBase, sheetName string) *PriceListService {
	if strings.TrimSpace(filenameBase) == "" {
		filenameBase = "ruda-paints-price-list"
	}
	if strings.TrimSpace(sheetName) == "" {
		sheetName = "Price List"
	}
	return &PriceListService{repo: repo, filenameBase: filenameBase, sheetName: sheetName, now: time.Now}
}

// PriceListItem 价目表条目
type PriceListItem struct {
	Name           string       `json:"name"`
	Category       string       `json:"category"`
	Brand          string       `json:"brand"`
	Size           string       `json:"size"`
	Price          models.Money `json:"price"`
	FormattedPrice string       `json:"formatted_price"`
	Description    string       `json:"description"`
}

// PriceListView 按分类分组的价目表
type PriceListView struct {
	LastUpdated time.Time                  `json:"last_updated"`
	Categories  []string                   `json:"categories"`
	Paints      map[string][]PriceListItem `json:"paints"`
	Total       int                        `json:"total"`
}

// PriceListFile 导出文件
type PriceListFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// BuildGroupedView 可售商品按分类分组，分类顺序与组内顺序均来自查询排序
func (s *PriceListService) BuildGroupedView() (*PriceListView, error) {
	rows, err := s.repo.ListPriceListRows()
	if err != nil {
		return nil, fmt.Errorf("load price list: %w", err)
	}
	view := &PriceListView{
		LastUpdated: s.now().UTC(),
		Categories:  []string{},
		Paints:      map[string][]PriceListItem{},
		Total:       len(rows),
	}
	for _, row := range rows {
		if _, ok := view.Paints[row.Category]; !ok {
			view.Categories = append(view.Categories, row.Category)
		}
		view.Paints[row.Category] = append(view.Paints[row.Category], PriceListItem{
			Name:           row.Name,
			Category:       row.Category,
			Brand:          row.Brand,
			Size:           row.Size,
			Price:          row.Price,
			FormattedPrice: row.Price.Formatted(),
			Description:    row.Description,
		})
	}
	return view, nil
}

// ResolvePriceListFormat 归一化导出格式，空值默认 csv
func ResolvePriceListFormat(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", constants.PriceListFormatCSV:
		return constants.PriceListFormatCSV, nil
	case constants.PriceListFormatExcel, "xlsx":
		return constants.PriceListFormatExcel, nil
	}
	return "", NewValidationError("format", "format must be csv or excel")
}

// Export 导出价目表
func (s *PriceListService) Export(format string) (*PriceListFile, error) {
	resolved, err := ResolvePriceListFormat(format)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListPriceListRows()
	if err != nil {
		return nil, fmt.Errorf("load price list: %w", err)
	}
	if resolved == constants.PriceListFormatExcel {
		data, err := s.renderExcel(rows)
		if err != nil {
			return nil, fmt.Errorf("render price list xlsx: %w", err)
		}
		return &PriceListFile{Filename: s.filenameBase + ".xlsx", ContentType: excelContentType, Data: data}, nil
	}
	data, err := renderCSV(priceListRecords(rows))
	if err != nil {
		return nil, fmt.Errorf("render price list csv: %w", err)
	}
	return &PriceListFile{Filename: s.filenameBase + ".csv", ContentType: csvContentType, Data: data}, nil
}

func priceListRecords(rows []repository.PriceListRow) [][]string {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.Name,
			row.Category,
			row.Brand,
			row.Size,
			row.Price.StringFixed(2),
			row.Description,
		})
	}
	return records
}

func renderCSV(records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(priceListHeader); err != nil {
		return nil, err
	}
	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *PriceListService) renderExcel(rows []repository.PriceListRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// 新建文件自带 Sheet1，直接改名
	if err := f.SetSheetName(f.GetSheetName(0), s.sheetName); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	header := make([]interface{}, len(priceListHeader))
	for i, h := range priceListHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(s.sheetName, "A1", &header); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(s.sheetName, "A1", "F1", bold); err != nil {
		return nil, err
	}

	// 价格列写数值单元格，0.00 格式显示
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []interface{}{row.Name, row.Category, row.Brand, row.Size, row.Price.Float64(), row.Description}
		if err := f.SetSheetRow(s.sheetName, cell, &values); err != nil {
			return nil, err
		}
	}
	if len(rows) > 0 {
		price, err := f.NewStyle(&excelize.Style{NumFmt: 2})
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(s.sheetName, "E2", fmt.Sprintf("E%d", len(rows)+1), price); err != nil {
			return nil, err
		}
	}

	widths := map[string]float64{"A": 32, "B": 14, "C": 18, "D": 8, "E": 14, "F": 60}
	for col, w := range widths {
		if err := f.SetColWidth(s.sheetName, col, col, w); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
