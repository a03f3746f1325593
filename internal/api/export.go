package api

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/andresl123/food-rescue-live-sub000/internal/constants"
)

// ExportOrders генерирует Excel-отчёт по заказам со статусами джобов,
// курьерами и получателями и отдаёт его файлом.
func (deps *ApiDependencies) ExportOrders(w http.ResponseWriter, r *http.Request) {
	rows, err := deps.Orders.OrdersForExport()
	if err != nil {
		log.Printf("ExportOrders: ошибка получения данных заказов из БД: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to load export data")
		return
	}

	f := excelize.NewFile()
	sheetName := "Заказы"
	index, _ := f.NewSheet(sheetName)
	f.DeleteSheet("Sheet1") // Удаляем стандартный лист
	f.SetActiveSheet(index)

	headers := []string{"ID Заказа", "Лот", "Статус лота", "Статус заказа", "Статус джоба", "Курьер", "Получатель", "Дата создания"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	rowIndex := 2
	for _, row := range rows {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowIndex), row.OrderID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowIndex), row.LotDescription)
		if row.LotStatus != "" {
			f.SetCellValue(sheetName, fmt.Sprintf("C%d", rowIndex), constants.LotStatusDisplayMap[row.LotStatus])
		}
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", rowIndex), constants.OrderStatusDisplayMap[row.OrderStatus])
		if row.JobStatus != "" {
			f.SetCellValue(sheetName, fmt.Sprintf("E%d", rowIndex), constants.JobStatusDisplayMap[row.JobStatus])
		}
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", rowIndex), row.CourierName)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", rowIndex), row.ReceiverName)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", rowIndex), row.CreatedAt.Format("02.01.2006 15:04"))
		rowIndex++
	}

	fileName := fmt.Sprintf("orders_report_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	if err := f.Write(w); err != nil {
		log.Printf("ExportOrders: ошибка записи Excel файла в ответ: %v", err)
	}
}
