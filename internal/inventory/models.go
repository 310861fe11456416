package inventory

import "time"

type InventoryMode string

const (
	ModeBulk       InventoryMode = "bulk"
	ModeSerialized InventoryMode = "serialized"
)

type Product struct {
	ID              string
	Name            string
	CategoryID      string
	InventoryMode   InventoryMode
	HasVariants     bool
	Quantity        int
	Reserved        int // committed to shipping orders
	StaffReserved   int // committed to staff pickup orders
	InitialQuantity *int
	CostCents       int
	Variants        []Variant
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Variant struct {
	ID              int64
	ProductID       string
	Size            string
	Color           string
	Quantity        int
	Reserved        int
	StaffReserved   int
	InitialQuantity *int
	CostCents       int
	SellCents       int
}

type DeliveryMethod string

const (
	DeliveryPickup   DeliveryMethod = "pickup"
	DeliveryShipping DeliveryMethod = "shipping"
)

type CreatedSource string

const (
	SourceStaff    CreatedSource = "staff"
	SourceCustomer CreatedSource = "customer"
)

type Order struct {
	ID             string
	OrderNumber    string
	DeliveryMethod DeliveryMethod
	CreatedSource  CreatedSource
	ShippingStatus ShippingStatus
	Carrier        string
	TrackingCode   string
	Items          []OrderItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type OrderItem struct {
	ID            int64
	OrderID       string
	ProductID     string
	VariantSize   string
	VariantColor  string
	Qty           int
	PriceCents    int
	SubtotalCents int
}

type EntryType string

const (
	EntryIn  EntryType = "in"
	EntryOut EntryType = "out"
)

// Ledger source tags. Pickup consumption is tagged by who created the
// order; shipping consumption has a single tag.
const (
	LedgerSourceStaffPickup    = "staff_pickup"
	LedgerSourceCustomerPickup = "customer_pickup"
	LedgerSourceShipping       = "shipping"
	LedgerSourceRestock        = "restock"
)

type LedgerEntry struct {
	ID           string
	ProductID    string
	EntryDate    time.Time
	Type         EntryType
	Qty          int
	CostCents    int
	Source       string
	OrderID      string
	VariantSize  string
	VariantColor string
	Actor        string
}

type SerialStatus string

const (
	SerialAvailable SerialStatus = "available"
	SerialReserved  SerialStatus = "reserved"
	SerialSold      SerialStatus = "sold"
)

type SerialUnit struct {
	ProductID  string
	Code       string
	Status     SerialStatus
	OrderID    string
	ReservedAt *time.Time
	SoldAt     *time.Time
	Warranty   Warranty
	CostCents  int
	VariantKey string
	CreatedAt  time.Time
}

type Warranty struct {
	Provider string
	Months   int
	StartAt  *time.Time
	EndAt    *time.Time
}
