package printjobs

import (
	"fmt"
	"log"

	"printsync-backend/internal/models"

	"gorm.io/gorm"
)

const inkPerPage = 0.05

// DeductStockForPrint burns branch consumables for one print run. If a
// recipe exists for the service type it drives the deduction; otherwise
// the fallback is one sheet per page plus an ink estimate, matching how
// the counter worked before recipes were configurable.
func DeductStockForPrint(tx *gorm.DB, branchID uint, pages int, isColor bool) error {
	serviceType := "PRINT_BW_A4"
	if isColor {
		serviceType = "PRINT_COLOR_A4"
	}

	var rules []models.ProductionRecipe
	if err := tx.Where("branch_id = ? AND service_type = ?", branchID, serviceType).
		Find(&rules).Error; err != nil {
		return err
	}
	if len(rules) > 0 {
		_, err := deductByRules(tx, rules, pages)
		return err
	}

	var paper models.RawMaterial
	err := tx.Where("branch_id = ? AND type = ?", branchID, models.MaterialPaper).First(&paper).Error
	if err == nil {
		// Not enough sheets on record: leave the counter alone and
		// alert instead of driving it negative.
		if paper.CurrentLevel < float64(pages) {
			log.Printf("low paper stock at branch %d: %.0f sheets left, %d needed, deduction skipped",
				branchID, paper.CurrentLevel, pages)
		} else if err := tx.Model(&paper).
			Update("current_level", gorm.Expr("current_level - ?", pages)).Error; err != nil {
			return err
		}
	}

	var ink models.RawMaterial
	err = tx.Where("branch_id = ? AND type = ?", branchID, models.MaterialInk).First(&ink).Error
	if err == nil {
		if err := tx.Model(&ink).
			Update("current_level", gorm.Expr("current_level - ?", float64(pages)*inkPerPage)).Error; err != nil {
			return err
		}
	}

	return nil
}

// DeductStockDynamic applies every recipe rule for a service type,
// count units worth.
func DeductStockDynamic(tx *gorm.DB, branchID uint, serviceType string, count int) ([]string, error) {
	var rules []models.ProductionRecipe
	if err := tx.Where("branch_id = ? AND service_type = ?", branchID, serviceType).
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return deductByRules(tx, rules, count)
}

func deductByRules(tx *gorm.DB, rules []models.ProductionRecipe, count int) ([]string, error) {
	results := make([]string, 0, len(rules))
	for _, rule := range rules {
		total := rule.QuantityRequired * float64(count)

		var material models.RawMaterial
		if err := tx.First(&material, "id = ?", rule.RawMaterialID).Error; err != nil {
			continue
		}
		if err := tx.Model(&material).
			Update("current_level", gorm.Expr("current_level - ?", total)).Error; err != nil {
			return nil, err
		}
		results = append(results, fmt.Sprintf("Deducted %.2f of %s", total, material.Name))

		if material.CurrentLevel-total < 50 {
			log.Printf("low stock for %s at branch %d", material.Name, material.BranchID)
		}
	}
	return results, nil
}
