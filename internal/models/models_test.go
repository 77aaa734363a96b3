package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hotel-inventory-api/internal/errs"
)

func TestDeviceInputNormalizeAndValidate(t *testing.T) {
	in := DeviceInput{Brand: " Dell ", Category: "Laptop", SerialNumber: " DL001 "}
	in.Normalize()

	assert.Equal(t, "Dell", in.Brand)
	assert.Equal(t, "DL001", in.SerialNumber)
	assert.Equal(t, DeviceAvailable, in.Status)
	assert.NoError(t, in.Validate())

	in.Brand = ""
	assert.ErrorIs(t, in.Validate(), errs.ErrValidation)

	in = DeviceInput{Brand: "HP", Category: "Yazıcı", SerialNumber: "X", Status: "broken"}
	assert.ErrorIs(t, in.Validate(), errs.ErrValidation)
}

func TestDevicePatchApply(t *testing.T) {
	brand := "Lenovo"
	status := DeviceMaintenance
	d := Device{ID: "d1", Brand: "Dell", Category: "Laptop", Status: DeviceAvailable}

	got := DevicePatch{Brand: &brand, Status: &status}.Apply(d)

	assert.Equal(t, "Lenovo", got.Brand)
	assert.Equal(t, DeviceMaintenance, got.Status)
	assert.Equal(t, "Laptop", got.Category)
	assert.Equal(t, "Dell", d.Brand, "original untouched")
	assert.True(t, DevicePatch{}.Empty())
}

func TestPatchNormalize(t *testing.T) {
	brand, serial := " Lenovo ", "\tLN-1 "
	dp := DevicePatch{Brand: &brand, SerialNumber: &serial}
	dp.Normalize()
	assert.Equal(t, "Lenovo", *dp.Brand)
	assert.Equal(t, "LN-1", *dp.SerialNumber)
	assert.Nil(t, dp.Category)

	name, phone := " Ayşe Demir ", " +90 555 "
	pp := PersonnelPatch{Name: &name, Phone: &phone}
	pp.Normalize()
	assert.Equal(t, "Ayşe Demir", *pp.Name)
	assert.Equal(t, "+90 555", *pp.Phone)
	assert.Nil(t, pp.Email)

	item := " Yazıcı "
	ip := InventoryItemPatch{ItemName: &item}
	ip.Normalize()
	assert.Equal(t, "Yazıcı", *ip.ItemName)
}

func TestSpecificationsStorage(t *testing.T) {
	assert.Equal(t, "SSD 512GB", Specifications{StorageType: "SSD", StorageCapacity: "512GB"}.Storage())
	assert.Equal(t, "1TB", Specifications{StorageCapacity: "1TB"}.Storage())
	assert.Equal(t, "", Specifications{}.Storage())
}

func TestPersonnelCloneIsDeep(t *testing.T) {
	p := Personnel{ID: "p1", AssignedDevices: []string{"d1"}}
	c := p.Clone()
	c.AssignedDevices[0] = "d2"

	assert.Equal(t, "d1", p.AssignedDevices[0])
	assert.True(t, p.Holds("d1"))
	assert.NotNil(t, Personnel{}.Clone().AssignmentHistory)
}

func TestInventoryPatchChanges(t *testing.T) {
	name := "ThinkPad"
	status := InventoryDefective
	price := 12500.0
	changes := InventoryItemPatch{ItemName: &name, CurrentStatus: &status, PurchasePrice: &price}.Changes()

	assert.Equal(t, JSONB{"itemName": "ThinkPad", "currentStatus": "defective", "purchasePrice": 12500.0}, changes)
	assert.True(t, InventoryItemPatch{}.Empty())
}

func TestMaintenanceInputValidate(t *testing.T) {
	in := MaintenanceInput{
		InventoryItemID: "i1",
		MaintenanceType: MaintenanceRepair,
		Status:          MaintenanceScheduled,
		Description:     "Ekran değişimi",
	}
	assert.NoError(t, in.Validate())

	in.MaintenanceType = "polish"
	assert.ErrorIs(t, in.Validate(), errs.ErrValidation)
	assert.True(t, MaintenanceInProgress.Open())
	assert.False(t, MaintenanceCompleted.Open())
}

func TestOrderStatusNext(t *testing.T) {
	assert.Equal(t, OrderApproved, OrderPending.Next())
	assert.Equal(t, OrderOrdered, OrderApproved.Next())
	assert.Equal(t, OrderReceived, OrderOrdered.Next())
	assert.Equal(t, OrderStatus(""), OrderReceived.Next())
}

func TestAutoOrderRuleValidate(t *testing.T) {
	r := AutoOrderRule{Category: "Laptop", Supplier: "TechnoSA", MinThreshold: 5, OrderQuantity: 10}
	assert.NoError(t, r.Validate())
	r.OrderQuantity = 0
	assert.ErrorIs(t, r.Validate(), errs.ErrValidation)
}
