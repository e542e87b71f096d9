package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ikkim/smartmart-backend/internal/app/model"
	"github.com/ikkim/smartmart-backend/internal/app/repository"
	"github.com/ikkim/smartmart-backend/internal/app/service"
	"github.com/ikkim/smartmart-backend/pkg/util"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ensureStaff promotes an existing user or creates a new staff account.
func ensureStaff(users repository.UserRepository, username, email, password string) (*model.User, bool, error) {
	user, err := users.FindByUsername(username)
	if err == nil {
		if !user.IsStaff {
			user.IsStaff = true
			if err := users.Update(user); err != nil {
				return nil, false, err
			}
		}
		return user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	if email == "" || password == "" {
		return nil, false, fmt.Errorf("user %q does not exist; -staff-email and -staff-password are required to create it", username)
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, false, err
	}

	user = &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsStaff:      true,
	}
	if err := users.CreateWithCart(user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

type skippedRow struct {
	Row    int
	Reason string
}

type importResult struct {
	Imported int
	Skipped  []skippedRow
}

// importProducts reads the first sheet of an .xlsx file. The first row is
// a header; columns are name, description, price, stock.
func importProducts(catalog service.CatalogService, filePath string) (*importResult, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	result := &importResult{}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if isBlank(row) {
			continue
		}

		input := service.ProductInput{
			Name:        cell(row, 0),
			Description: cell(row, 1),
			Price:       cell(row, 2),
			Stock:       cell(row, 3),
		}

		if _, err := catalog.CreateProduct(input); err != nil {
			var verr *service.ValidationError
			if errors.As(err, &verr) {
				result.Skipped = append(result.Skipped, skippedRow{Row: i + 1, Reason: verr.Error()})
				continue
			}
			return result, fmt.Errorf("row %d: %w", i+1, err)
		}
		result.Imported++
	}

	return result, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
