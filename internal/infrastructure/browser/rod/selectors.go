package rod

// All element-location knowledge for the DHS portal lives here. The portal is
// an ASP.NET Web Forms application with no stability contract on its markup;
// when scraping breaks after a portal release, this is the file to update.
const (
	loginPath = "/dhs_Login.aspx"

	selLoginUsername = "#cp_pagedata_f_login_username"
	selLoginPassword = "#cp_pagedata_f_login_password"
	selLoginSubmit   = "#cp_pagedata_lb_ProceedLogin"

	// Presence of the transfers link is the post-login landing detector.
	// "Network idle" is useless here: the portal polls in the background
	// forever.
	selPostLoginNav = "a[href*='dhs_ManageRequestTransfers.aspx']"
	selNewDataTab   = "#cp_pagedata_lb_NewData"

	selFilterInput = "#cp_pagedata_f_RSAIDPass"
	selFilterApply = "#cp_pagedata_lb_ApplyDataFilter"

	selRowStatusCell    = "td:nth-child(6) div span"
	selRowDetailTrigger = "td:nth-child(8) div"
	statusCellIndex     = 6

	selDetailFrame = "iframe#IframePage"
	selDetailHide  = "#cp_pagedata_btnHide"
)

// Detail overlay fields by semantic name, as exposed through the port.
var detailFieldSelectors = map[string]string{
	"trading_name": "#f_TradingName",
}
