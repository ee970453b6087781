// Package model 定义供应链各业务模块的实体类型
//
// 实体由远端 REST API 拥有；客户端持有的任何列表/详情都只是
// 可能过期的快照。字段名与后端 JSON 约定保持一致。
package model

import (
	"supplyflow/validation"
)

// ==============================
// 交付模块
// ==============================

// Customer 客户
type Customer struct {
	ID      int64  `json:"id,omitempty"`
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`

	// 服务端计算的只读聚合字段
	OrdersCount     int  `json:"ordersCount,omitempty"`
	HasActiveOrders bool `json:"hasActiveOrders,omitempty"`
}

func (c Customer) GetID() int64 { return c.ID }

// Validate 提交前的客户端校验（与远端 400 契约一致）
func (c Customer) Validate() error {
	if err := validation.ValidateRequired(c.Name, "客户名称"); err != nil {
		return err
	}
	if err := validation.ValidateStringLength(c.Name, "客户名称", 0, 120); err != nil {
		return err
	}
	if err := validation.ValidateRequired(c.Address, "地址"); err != nil {
		return err
	}
	return validation.ValidateRequired(c.City, "城市")
}

// CustomerOrderStatus 客户订单状态
const (
	CustomerOrderPreparing = "EN_PREPARATION"
	CustomerOrderEnRoute   = "EN_ROUTE"
	CustomerOrderDelivered = "LIVREE"
)

// CustomerOrder 客户订单
type CustomerOrder struct {
	ID           int64  `json:"id,omitempty"`
	CustomerID   int64  `json:"customerId"`
	CustomerName string `json:"customerName,omitempty"`
	ProductID    int64  `json:"productId"`
	ProductName  string `json:"productName,omitempty"`
	Quantity     int    `json:"quantity"`
	Status       string `json:"status"`
}

func (o CustomerOrder) GetID() int64 { return o.ID }

func (o CustomerOrder) Validate() error {
	if err := validation.ValidateID(o.CustomerID, "客户ID"); err != nil {
		return err
	}
	if err := validation.ValidateID(o.ProductID, "产品ID"); err != nil {
		return err
	}
	return validation.ValidatePositive(o.Quantity, "数量")
}

// DeliveryStatus 配送状态
const (
	DeliveryPlanned   = "PLANIFIEE"
	DeliveryInTransit = "EN_COURS"
	DeliveryDone      = "LIVREE"
)

// Delivery 配送单
type Delivery struct {
	ID           int64   `json:"id,omitempty"`
	OrderID      int64   `json:"orderId"`
	Vehicle      string  `json:"vehicle"`
	Driver       string  `json:"driver"`
	Status       string  `json:"status"`
	DeliveryDate string  `json:"deliveryDate"`
	Cost         float64 `json:"cost,omitempty"`
}

func (d Delivery) GetID() int64 { return d.ID }

func (d Delivery) Validate() error {
	if err := validation.ValidateID(d.OrderID, "订单ID"); err != nil {
		return err
	}
	if err := validation.ValidateRequired(d.Vehicle, "车辆"); err != nil {
		return err
	}
	if err := validation.ValidateRequired(d.Driver, "司机"); err != nil {
		return err
	}
	return validation.ValidateEnum(d.Status, "配送状态",
		[]string{DeliveryPlanned, DeliveryInTransit, DeliveryDone})
}

// ==============================
// 生产模块
// ==============================

// Product 产品
type Product struct {
	ID                int64   `json:"id,omitempty"`
	Name              string  `json:"name"`
	ProductionTime    int     `json:"productionTime"`
	Cost              float64 `json:"cost"`
	Stock             int     `json:"stock"`
	BillOfMaterialIDs []int64 `json:"billOfMaterialIds,omitempty"`
	ActiveOrdersCount int     `json:"activeOrdersCount,omitempty"`
}

func (p Product) GetID() int64 { return p.ID }

func (p Product) Validate() error {
	if err := validation.ValidateRequired(p.Name, "产品名称"); err != nil {
		return err
	}
	return validation.ValidateNonNegative(p.Stock, "库存")
}

// BillOfMaterial 物料清单行
type BillOfMaterial struct {
	ID                int64  `json:"id,omitempty"`
	ProductID         int64  `json:"productId"`
	ProductName       string `json:"productName,omitempty"`
	MaterialID        int64  `json:"materialId"`
	MaterialName      string `json:"materialName,omitempty"`
	Quantity          int    `json:"quantity"`
	MaterialAvailable bool   `json:"materialAvailable,omitempty"`
}

func (b BillOfMaterial) GetID() int64 { return b.ID }

// ProductionOrder 生产订单
type ProductionOrder struct {
	ID                      int64  `json:"id,omitempty"`
	ProductID               int64  `json:"productId"`
	ProductName             string `json:"productName,omitempty"`
	Quantity                int    `json:"quantity"`
	Status                  string `json:"status"`
	StartDate               string `json:"startDate"`
	EndDate                 string `json:"endDate,omitempty"`
	IsPriority              bool   `json:"isPriority"`
	EstimatedProductionTime int    `json:"estimatedProductionTime,omitempty"`
	MaterialsAvailable      bool   `json:"materialsAvailable,omitempty"`
}

func (o ProductionOrder) GetID() int64 { return o.ID }

// ==============================
// 采购模块
// ==============================

// RawMaterial 原材料
type RawMaterial struct {
	ID             int64              `json:"id,omitempty"`
	Name           string             `json:"name"`
	Stock          int                `json:"stock"`
	StockMin       int                `json:"stockMin"`
	Unit           string             `json:"unit"`
	IsBelowMinimum bool               `json:"isBelowMinimum,omitempty"`
	Suppliers      []SupplierMaterial `json:"suppliers,omitempty"`
}

func (m RawMaterial) GetID() int64 { return m.ID }

// Supplier 供应商
type Supplier struct {
	ID      int64  `json:"id,omitempty"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
}

func (s Supplier) GetID() int64 { return s.ID }

// SupplierMaterial 供应商-物料关系（报价行）
type SupplierMaterial struct {
	ID               int64   `json:"id,omitempty"`
	SupplierID       int64   `json:"supplierId"`
	SupplierName     string  `json:"supplierName,omitempty"`
	MaterialID       int64   `json:"materialId"`
	MaterialName     string  `json:"materialName,omitempty"`
	UnitPrice        float64 `json:"unitPrice"`
	MinOrderQuantity int     `json:"minOrderQuantity"`
	LeadTimeDays     int     `json:"leadTimeDays"`
	IsPreferred      bool    `json:"isPreferred"`
}

func (m SupplierMaterial) GetID() int64 { return m.ID }

// SupplyOrderStatus 采购订单状态
const (
	SupplyOrderPending  = "EN_ATTENTE"
	SupplyOrderOngoing  = "EN_COURS"
	SupplyOrderReceived = "RECUE"
)

// SupplyOrderItem 采购订单行
type SupplyOrderItem struct {
	ID           int64   `json:"id,omitempty"`
	MaterialID   int64   `json:"materialId"`
	MaterialName string  `json:"materialName,omitempty"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unitPrice"`
	SubTotal     float64 `json:"subTotal,omitempty"`
}

// SupplyOrder 采购订单
type SupplyOrder struct {
	ID                   int64             `json:"id,omitempty"`
	SupplierID           int64             `json:"supplierId"`
	SupplierName         string            `json:"supplierName,omitempty"`
	Items                []SupplyOrderItem `json:"items"`
	OrderDate            string            `json:"orderDate"`
	Status               string            `json:"status"`
	ExpectedDeliveryDate string            `json:"expectedDeliveryDate,omitempty"`
}

func (o SupplyOrder) GetID() int64 { return o.ID }

func (o SupplyOrder) Validate() error {
	if err := validation.ValidateID(o.SupplierID, "供应商ID"); err != nil {
		return err
	}
	if len(o.Items) == 0 {
		return validation.NewValidationError("采购订单至少需要一行物料")
	}
	return validation.ValidateEnum(o.Status, "采购状态",
		[]string{SupplyOrderPending, SupplyOrderOngoing, SupplyOrderReceived})
}

// ==============================
// 系统管理模块
// ==============================

// UserRole 系统用户角色（与后端角色字典一致）
const (
	UserRoleAdmin                = "ADMIN"
	UserRoleSupplyManager        = "GESTIONNAIRE_APPROVISIONNEMENT"
	UserRolePurchasingManager    = "RESPONSABLE_ACHATS"
	UserRoleLogisticsSupervisor  = "SUPERVISEUR_LOGISTIQUE"
	UserRoleProductionChief      = "CHEF_PRODUCTION"
	UserRolePlanner              = "PLANIFICATEUR"
	UserRoleProductionSupervisor = "SUPERVISEUR_PRODUCTION"
	UserRoleSalesManager         = "GESTIONNAIRE_COMMERCIAL"
	UserRoleLogisticsManager     = "RESPONSABLE_LOGISTIQUE"
	UserRoleDeliverySupervisor   = "SUPERVISEUR_LIVRAISONS"
)

// userRoles 角色字典，校验用
var userRoles = []string{
	UserRoleAdmin,
	UserRoleSupplyManager,
	UserRolePurchasingManager,
	UserRoleLogisticsSupervisor,
	UserRoleProductionChief,
	UserRolePlanner,
	UserRoleProductionSupervisor,
	UserRoleSalesManager,
	UserRoleLogisticsManager,
	UserRoleDeliverySupervisor,
}

// User 系统用户（管理模块维护的账户记录，区别于 auth.Profile）
type User struct {
	ID        int64  `json:"id,omitempty"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

func (u User) GetID() int64 { return u.ID }

// Validate 提交前的客户端校验
func (u User) Validate() error {
	if err := validation.ValidateRequired(u.Email, "邮箱"); err != nil {
		return err
	}
	if err := validation.ValidateRequired(u.FirstName, "名"); err != nil {
		return err
	}
	if err := validation.ValidateRequired(u.LastName, "姓"); err != nil {
		return err
	}
	return validation.ValidateEnum(u.Role, "角色", userRoles)
}
