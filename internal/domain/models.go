// Package domain defines the core data model of the service portal: the
// service catalog, citizen applications, retailer/admin users with their
// wallet ledgers, and in-app notifications. The collections are owned live by
// the state store and serialized wholesale into the local cache and the remote
// sheet, so these types carry JSON tags matching the wire format used by the
// portal front end.
package domain

import "strings"

// Roles recognized by the portal.
const (
	RoleAdmin    = "admin"
	RoleRetailer = "retailer"
)

// Application statuses. Transitions are admin-controlled and unconstrained:
// any status may follow any other.
const (
	AppStatusPending   = "Pending"
	AppStatusProcessed = "Processed"
	AppStatusApproved  = "Approved"
	AppStatusRejected  = "Rejected"
)

// User account statuses.
const (
	UserStatusActive    = "Active"
	UserStatusPending   = "Pending"
	UserStatusRejected  = "Rejected"
	UserStatusSuspended = "Suspended"
)

// Wallet transaction types.
const (
	TxCredit     = "Credit"
	TxDebit      = "Debit"
	TxWithdrawal = "Withdrawal"
)

// Wallet transaction statuses. Only Success transactions move the balance;
// Pending transactions take effect retroactively if approved.
const (
	TxStatusPending  = "Pending"
	TxStatusSuccess  = "Success"
	TxStatusRejected = "Rejected"
)

// Payment methods accepted on submission.
const (
	PayWallet = "Wallet"
	PayUPI    = "UPI"
)

// Service is a catalog entry the portal offers. Entries are static
// configuration except for admin edits. IDs are unique within the catalog.
type Service struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Price       int    `json:"price"`
	HelpLink    string `json:"helpLink"`
	ServiceURL  string `json:"serviceUrl,omitempty"`

	// Form feature flags; the front end renders fields accordingly.
	RequiresBiometrics     bool `json:"requiresBiometrics,omitempty"`
	RequiresMotherName     bool `json:"requiresMotherName,omitempty"`
	RequiresFatherName     bool `json:"requiresFatherName,omitempty"`
	RequiresDob            bool `json:"requiresDob,omitempty"`
	RequiresEpic           bool `json:"requiresEpic,omitempty"`
	RequiresAddress        bool `json:"requiresAddress,omitempty"`
	RequiresPhoto          bool `json:"requiresPhoto,omitempty"`
	RequiresSignature      bool `json:"requiresSignature,omitempty"`
	RequiresLandDetails    bool `json:"requiresLandDetails,omitempty"`
	AllowAdditionalMembers bool `json:"allowAdditionalMembers,omitempty"`
}

// Transaction is one entry in a user's wallet ledger. The amount is always
// non-negative; the type decides the sign of the balance effect, and only
// Success transactions have one.
type Transaction struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Amount      int    `json:"amount"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Status      string `json:"status"`
	UTR         string `json:"utr,omitempty"`
	BankDetails string `json:"bankDetails,omitempty"`
}

// User is a portal account: the single seeded admin or a retailer. The wallet
// balance is derived state, changed only through Success transactions, and
// Transactions is ordered most-recent-first.
type User struct {
	ID             string        `json:"id"`
	Username       string        `json:"username"`
	Role           string        `json:"role"`
	FullName       string        `json:"fullName"`
	ShopName       string        `json:"shopName,omitempty"`
	Email          string        `json:"email,omitempty"`
	MobileNumber   string        `json:"mobileNumber,omitempty"`
	AadharNumber   string        `json:"aadharNumber,omitempty"`
	PanNumber      string        `json:"panNumber,omitempty"`
	Status         string        `json:"status"`
	RegisteredAt   string        `json:"registeredAt,omitempty"`
	CustomPassword string        `json:"customPassword,omitempty"`
	WalletBalance  int           `json:"walletBalance"`
	Transactions   []Transaction `json:"transactions,omitempty"`
}

// AddressInfo is the address block captured for services that require it.
type AddressInfo struct {
	State      string `json:"state"`
	Block      string `json:"block,omitempty"`
	Anchal     string `json:"anchal,omitempty"`
	Anumandal  string `json:"anumandal,omitempty"`
	Panchayat  string `json:"panchayat,omitempty"`
	PostOffice string `json:"postOffice,omitempty"`
	PinCode    string `json:"pinCode,omitempty"`
	Village    string `json:"village,omitempty"`
}

// LandInfo is the revenue-record block captured for land services.
type LandInfo struct {
	District    string `json:"district"`
	Anchal      string `json:"anchal"`
	Halka       string `json:"halka"`
	Mauja       string `json:"mauja"`
	PlotNumber  string `json:"plotNumber,omitempty"`
	KhataNumber string `json:"khataNumber,omitempty"`
}

// Application is a citizen service request. The ID (format "DOS-" + 6
// uppercase alphanumerics) is immutable once minted; service title and price
// are denormalized at submission time. Document, photo and signature payloads
// are data-URL encoded strings.
type Application struct {
	ID           string `json:"id"`
	ServiceID    string `json:"serviceId"`
	ServiceName  string `json:"serviceName"`
	FullName     string `json:"fullName"`
	MotherName   string `json:"motherName,omitempty"`
	Dob          string `json:"dob"`
	FatherName   string `json:"fatherName"`
	MobileNumber string `json:"mobileNumber"`
	Status       string `json:"status"`
	SubmittedAt  string `json:"submittedAt"`

	DocumentName          string `json:"documentName"`
	DocumentURL           string `json:"documentUrl,omitempty"`
	PhotoName             string `json:"photoName,omitempty"`
	PhotoURL              string `json:"photoUrl,omitempty"`
	SignatureName         string `json:"signatureName,omitempty"`
	SignatureURL          string `json:"signatureUrl,omitempty"`
	ProcessedDocumentName string `json:"processedDocumentName,omitempty"`
	ProcessedDocumentURL  string `json:"processedDocumentUrl,omitempty"`

	AmountPaid       int    `json:"amountPaid"`
	UserID           string `json:"userId,omitempty"`
	RoleAtSubmission string `json:"roleAtSubmission,omitempty"`
	AssignedToID     string `json:"assignedToId,omitempty"`
	AssignedToName   string `json:"assignedToName,omitempty"`
	Remark           string `json:"remark,omitempty"`

	RationType      string   `json:"rationType,omitempty"` // "New" | "AddName"
	AdditionalNames []string `json:"additionalNames,omitempty"`
	EpicNumber      string   `json:"epicNumber,omitempty"`

	AddressInfo *AddressInfo `json:"addressInfo,omitempty"`
	LandInfo    *LandInfo    `json:"landInfo,omitempty"`

	PaymentMethod string `json:"paymentMethod,omitempty"`
}

// AppNotification is modeled for wire compatibility with the front end. No
// backend path currently populates or marks these read; see DESIGN.md.
type AppNotification struct {
	ID      string `json:"id"`
	UserID  string `json:"userId"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Date    string `json:"date"`
	IsRead  bool   `json:"isRead"`
	Type    string `json:"type"` // info | success | warning | error
}

// DefaultAdmin returns the seeded administrator account. Exactly one such
// entry (role admin, username "admin" in any case) must exist in the retailer
// collection after every load or merge.
func DefaultAdmin() User {
	return User{
		ID:            "1",
		Username:      "admin",
		Role:          RoleAdmin,
		FullName:      "Amit Kumar",
		Status:        UserStatusActive,
		WalletBalance: 0,
		Transactions:  []Transaction{},
	}
}

// IsSeededAdmin reports whether u is the seeded administrator in the sense of
// the merge invariant: admin role plus the reserved username, case-insensitive.
func (u User) IsSeededAdmin() bool {
	return u.Role == RoleAdmin && strings.EqualFold(u.Username, "admin")
}

// ValidAppStatus reports whether s is a recognized application status.
func ValidAppStatus(s string) bool {
	switch s {
	case AppStatusPending, AppStatusProcessed, AppStatusApproved, AppStatusRejected:
		return true
	}
	return false
}

// ValidUserStatus reports whether s is a recognized account status.
func ValidUserStatus(s string) bool {
	switch s {
	case UserStatusActive, UserStatusPending, UserStatusRejected, UserStatusSuspended:
		return true
	}
	return false
}

// ValidTransactionType reports whether t is a recognized ledger entry type.
func ValidTransactionType(t string) bool {
	switch t {
	case TxCredit, TxDebit, TxWithdrawal:
		return true
	}
	return false
}
