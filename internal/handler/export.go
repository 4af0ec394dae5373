package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gustavobiasi/api-gerenciador-financeiro/internal/models"
	"github.com/gustavobiasi/api-gerenciador-financeiro/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler produces downloadable statements of the acting user's
// ledger entries.
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

// userTransactions loads the user's ledger entries, newest first. Entries
// are scoped through their owning transfer.
func (h *ExportHandler) userTransactions(userID uint) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := h.DB.
		Joins("JOIN transfers ON transfers.id = transactions.transfer_id").
		Where("transfers.user_id = ?", userID).
		Order("transactions.date DESC, transactions.id DESC").
		Find(&transactions).Error
	return transactions, err
}

var exportHeaders = []string{"Description", "Date", "Amount", "Type", "Account"}

func exportRow(t *models.Transaction) []string {
	return []string{
		t.Description,
		t.Date.Format("2006-01-02"),
		t.Amount.StringFixed(2),
		t.Type,
		fmt.Sprintf("%d", t.AccID),
	}
}

// ExportCSV writes the user's statement as CSV.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	transactions, err := h.userTransactions(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	writer.Write(exportHeaders)
	for i := range transactions {
		writer.Write(exportRow(&transactions[i]))
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		// headers are already sent; the broken download can only be logged
		_ = c.Error(err)
	}
}

// ExportXLSX writes the user's statement as an Excel workbook.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	transactions, err := h.userTransactions(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	f := excelize.NewFile()
	sheetName := "Transactions"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for idx := range transactions {
		row := idx + 2
		for col, value := range exportRow(&transactions[idx]) {
			cell := fmt.Sprintf("%c%d", 'A'+col, row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	f.SetColWidth(sheetName, "A", "A", 30)
	f.SetColWidth(sheetName, "B", "E", 12)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
	}
}
