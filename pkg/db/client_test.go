package db_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/BlessingGianna7/rest-pms-system/pkg/db"
	"github.com/BlessingGianna7/rest-pms-system/pkg/db/dbtest"
	"github.com/BlessingGianna7/rest-pms-system/pkg/db/models"
	"github.com/BlessingGianna7/rest-pms-system/pkg/enums"
	"gorm.io/gorm"
)

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	conn := dbtest.Open(t)
	client := db.NewFromConn(conn)

	ctx := context.Background()
	if err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&models.ParkingSlot{SlotNumber: 1, VehicleType: "car", Status: enums.SlotStatusFree}).Error
	}); err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}

	var count int64
	if err := conn.Model(&models.ParkingSlot{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record, got %d", count)
	}

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&models.ParkingSlot{SlotNumber: 2, VehicleType: "car", Status: enums.SlotStatusFree}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected WithTx to return an error")
	}
	if err := conn.Model(&models.ParkingSlot{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed after rollback: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected rollback to leave 1 record, got %d", count)
	}
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	conn := dbtest.Open(t)
	client := db.NewFromConn(conn)

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		_ = client.WithTx(context.Background(), func(tx *gorm.DB) error {
			if err := tx.Create(&models.ParkingSlot{SlotNumber: 7, VehicleType: "car", Status: enums.SlotStatusFree}).Error; err != nil {
				return err
			}
			panic("boom")
		})
	}()

	var count int64
	if err := conn.Model(&models.ParkingSlot{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected panic rollback, got %d rows", count)
	}
}

func TestPing(t *testing.T) {
	client := db.NewFromConn(dbtest.Open(t))
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	conn := dbtest.Open(t)
	slot := models.ParkingSlot{SlotNumber: 3, VehicleType: "car", Status: enums.SlotStatusFree}
	if err := conn.Create(&slot).Error; err != nil {
		t.Fatalf("seed slot: %v", err)
	}
	err := conn.Create(&models.ParkingSlot{SlotNumber: 3, VehicleType: "truck", Status: enums.SlotStatusFree}).Error
	if !db.IsUniqueViolation(err, "") {
		t.Fatalf("expected unique violation, got %v", err)
	}
	if !db.IsUniqueViolation(err, "parking_slots.slot_number") {
		t.Fatalf("expected constraint match, got %v", err)
	}
	if db.IsUniqueViolation(fmt.Errorf("connection reset"), "") {
		t.Fatal("unexpected match on unrelated error")
	}
	if db.IsUniqueViolation(nil, "") {
		t.Fatal("nil should never match")
	}
}
