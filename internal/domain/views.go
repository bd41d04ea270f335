package domain

// ViewState names the presentational screen the front end should render.
// The backend tracks the active view per session and validates transitions
// against this enumeration; everything else about rendering is the front
// end's concern.
type ViewState string

// The full set of portal views.
const (
	ViewHome           ViewState = "home"
	ViewForm           ViewState = "form"
	ViewAdmin          ViewState = "admin"
	ViewStatus         ViewState = "status"
	ViewReceipt        ViewState = "receipt"
	ViewLogin          ViewState = "login"
	ViewRegister       ViewState = "register"
	ViewForgetPassword ViewState = "forget-password"
	ViewWallet         ViewState = "wallet"
	ViewProfile        ViewState = "profile"
	ViewPolicy         ViewState = "policy"
	ViewDownload       ViewState = "download"
)

// Valid reports whether v is one of the recognized portal views.
func (v ViewState) Valid() bool {
	switch v {
	case ViewHome, ViewForm, ViewAdmin, ViewStatus, ViewReceipt, ViewLogin,
		ViewRegister, ViewForgetPassword, ViewWallet, ViewProfile, ViewPolicy,
		ViewDownload:
		return true
	}
	return false
}
