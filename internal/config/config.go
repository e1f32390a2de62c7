package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client used for profile downloads.
var UserAgent = "Go-BabyAge/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go BabyAge"
	AppID             = "com.github.tartampluch.go-babyage"
	KeyringService    = "com.github.tartampluch.go-babyage"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	DBFileName        = "babyage.db"
	DotEnvFile        = ".env"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags, Environment & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion = "version"
	FlagDebug   = "debug"
	FlagPort    = "port"
	FlagStore   = "store"
	FlagDB      = "db"
	FlagImport  = "import"
	FlagUser    = "user"
	FlagLang    = "lang"
	FlagSetPass = "set-password"

	FlagDescVersion = "Show application version and exit"
	FlagDescDebug   = "Enable debug logging to stdout"
	FlagDescPort    = "HTTP port of the local API"
	FlagDescStore   = "Settings backend: sqlite or prefs"
	FlagDescDB      = "Path of the SQLite database (sqlite backend)"
	FlagDescImport  = "Import birth and due date from a vCard file or http(s) URL"
	FlagDescUser    = "Username for a protected vCard URL (password read from the keyring)"
	FlagDescLang    = "Language of axis labels and calendar summaries"
	FlagDescSetPass = "Read the password of -user from stdin, store it in the keyring and exit"

	EnvPort = "BABYAGE_PORT"
	EnvDB   = "BABYAGE_DB"
	EnvLang = "BABYAGE_LANG"

	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Storage
// -----------------------------------------------------------------------------

const (
	StoreSQLite = "sqlite"
	StorePrefs  = "prefs"

	// KV keys of the persisted JSON blobs.
	KeySettings     = "settings"
	KeyAchievements = "achievements"

	SQLDriverName = "sqlite"
	SQLSchema     = `CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value BLOB NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`
	SQLSelectValue = `SELECT value FROM kv WHERE key = ?`
	SQLUpsertValue = `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	SQLDeleteValue = `DELETE FROM kv WHERE key = ?`
)

// SupportedLanguages defines the list of available label languages (ISO 639-1).
var SupportedLanguages = []string{"en", "ja"}

// -----------------------------------------------------------------------------
// Age Domain
// -----------------------------------------------------------------------------

const (
	AgeFormatMD  = "md"
	AgeFormatYMD = "ymd"

	// DefaultAgeFormat applies when the persisted settings carry no format.
	DefaultAgeFormat = AgeFormatYMD

	// AgeZeroLabel is the chronological label used when no birth date is known.
	AgeZeroLabel = "0d"

	// UnlimitedCorrectedMonths is the secondary "no horizon" sentinel. nil is canonical.
	UnlimitedCorrectedMonths = 999

	// CalendarGridCells is 6 weeks x 7 days.
	CalendarGridWeeks = 6
	CalendarGridCells = CalendarGridWeeks * 7
)

// Graph bucketing constants. Buckets use fixed 30-day months on purpose.
const (
	PeriodOneYear   = "1y"
	PeriodThreeYear = "3y"
	PeriodAll       = "all"

	BucketMonthDays     = 30
	GestationWeekDays   = 7
	TermWeeks           = 40
	MinGestationalWeek  = 22
	GestationalWeekStep = 4
	PrematureMinDays    = 21
	MaxAxisLabels       = 12
	MonthsPerYear       = 12

	AchievementDid   = "did"
	AchievementTried = "tried"
)

// Default axis label templates (n = bucket or month index, w = gestational week).
const (
	AxisLabelMonth     = "%dM"
	AxisLabelYear      = "%dY"
	AxisLabelCorrected = "修%dM"
	AxisLabelDueDate   = "予定日"
	AxisLabelWeek      = "%dw"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyAxisMonth     = "axis_month"     // Requires Count
	TKeyAxisYear      = "axis_year"      // Requires Count
	TKeyAxisCorrected = "axis_corrected" // Requires Count
	TKeyAxisDueDate   = "axis_due_date"
	TKeyAxisWeek      = "axis_week" // Requires Week
	TKeyEvtAge        = "event_age" // Requires Age
	TKeyEvtAgeCorr    = "event_age_corrected"
	TKeyEvtDueDate    = "event_due_date" // Requires Name
	TKeyEvtBirth      = "event_birth"    // Requires Name
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard & Dates
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go BabyAge//Milestones//EN"
	ICalCalName   = "Baby Age"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalDomain    = "gobabyage"
	ICalUIDFormat = "%s@%s"

	PropUID        = "UID"
	PropSummary    = "SUMMARY"
	PropDTStart    = "DTSTART"
	PropDTStamp    = "DTSTAMP"
	PropRefresh    = "REFRESH-INTERVAL"
	PropVersion    = "VERSION"
	PropProdid     = "PRODID"
	PropXWRCalName = "X-WR-CALNAME"
	PropCalScale   = "CALSCALE"
	PropMethod     = "METHOD"

	VCardBDAY    = "BDAY"
	VCardFN      = "FN"
	VCardN       = "N"
	VCardDueDate = "X-DUE-DATE"

	DefaultICalRefresh   = 1 * time.Hour
	DefaultMilestoneSpan = 36 // Monthly birthdays exported to the ICS feed.

	// UIDNamespaceSeed seeds the deterministic UUID namespace of ICS events.
	UIDNamespaceSeed = "go-babyage-v1"
	FormatUIDInput   = "%s|%s|%d"

	// Date layouts
	DateFormatKey   = "2006-01-02"
	DateFormatBasic = "20060102"
	DateFormatMonth = "2006-01"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	DefaultPort         = "18081"
	DefaultLanguage     = "en"
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RefreshInterval     = 1 * time.Hour
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	AllowedMethodsRW    = "GET, HEAD, POST, DELETE"
	MaxRequestBodySize  = 64 * 1024
	MaxHTTPResponseSize = 1 * 1024 * 1024 // 1MB, a profile vCard is tiny.
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	AddrSeparator       = ":"

	RouteAge      = "/api/age"
	RouteCalendar = "/api/calendar"
	RouteGraph    = "/api/graph"
	RouteICS      = "/calendar.ics"

	RouteAchievements = "/api/achievements"

	QueryDay    = "day"
	QueryMonth  = "month"
	QueryPeriod = "period"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderAccept          = "Accept"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeNoSniff         = "nosniff"
	MimeVCardAccept     = "text/vcard, text/x-vcard;q=0.9, */*;q=0.1"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// VCardMediaTypes are the Content-Types a profile download may carry. Plain text and
// octet streams cover static file servers.
var VCardMediaTypes = []string{
	"text/vcard",
	"text/x-vcard",
	"text/directory",
	"text/plain",
	"application/octet-stream",
}

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrInvalidDateFormat   = "invalid date format (expected YYYY-MM-DD)"
	ErrInvalidAgeFormat    = "invalid age format (expected md or ymd)"
	ErrInvalidAchievement  = "invalid achievement type (expected did or tried)"
	ErrUnsupportedPeriod   = "unsupported graph period (expected 1y, 3y or all)"
	ErrInvalidMonth        = "invalid month format (expected YYYY-MM)"
	ErrNoBirthday          = "no vCard with a birthday found"
	ErrSettingsDecode      = "failed to decode settings"
	ErrSettingsEncode      = "failed to encode settings"
	ErrAchievementsDecode  = "failed to decode achievements"
	ErrAchievementsEncode  = "failed to encode achievements"
	ErrStoreOpen           = "failed to open settings store"
	ErrStoreSchema         = "failed to create settings schema"
	ErrStoreRead           = "failed to read value"
	ErrStoreWrite          = "failed to write value"
	ErrStoreUnknown        = "configuration error: unsupported store backend"
	ErrFetcherMissing      = "internal error: profile fetcher is not initialized"
	ErrServerStartup       = "server startup failed"
	ErrServerShutdown      = "server shutdown failed"
	ErrPortRequired        = "server port is required"
	ErrInvalidURL          = "invalid URL structure"
	ErrProtocol            = "unsupported protocol scheme (http/https only)"
	ErrVCardParse          = "failed to parse vCard stream"
	ErrICalEncode          = "failed to encode iCalendar data"
	ErrProfileImport       = "profile import failed"
	ErrLogFile             = "failed to open log file"
	ErrCacheDir            = "could not determine user cache dir"
	ErrCreateDir           = "could not create app cache dir"
	ErrAppFailed           = "application failed unexpectedly"
	ErrWriteResp           = "failed to write response body"
	ErrLocalesAccess       = "failed to access embedded locales"
	ErrLocaleLoad          = "failed to load locale file"
	ErrRefreshFailed       = "calendar refresh failed"
	ErrCredentialsNotFound = "password not found in keyring"
	ErrUserRequired        = "a -user is required to store a password"
	ErrEmptyPassword       = "no password read from stdin"
	ErrDayRequired         = "missing day parameter (expected YYYY-MM-DD)"
	ErrRequestBody         = "invalid request body"
	ErrNoAchievements      = "no achievements recorded for this day"
	ErrContentType         = "unexpected content type for a vCard"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgInternalErr  = "Internal Server Error"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackSummaryAge     = "Age %s"
	FallbackSummaryAgeCorr = "Age %s (corrected %s)"
	FallbackSummaryDue     = "%s: due date"
	FallbackSummaryBirth   = "%s: birth"
	FallbackName           = "Baby"

	// StubVCalendar is the minimal valid iCalendar object used when no events exist.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	MsgAppStarting     = "Starting application"
	MsgAppStop         = "Application stopped gracefully"
	MsgCtxCancel       = "Context cancelled, shutting down"
	MsgImportSaved     = "Imported profile saved to settings"
	MsgAchievementAdd  = "Achievement recorded"
	MsgAchievementDel  = "Achievements removed"
	MsgPassSaved       = "Password stored in keyring"
	MsgEnvSkipped      = "No .env file loaded"
	MsgStoreOpened     = "Settings store opened"
	MsgProfileImported = "Profile imported"
	MsgProfileFetch    = "Initiating vCard download"
	MsgSkippedCard     = "Skipping malformed vCard"
	MsgSkippedDate     = "Skipping invalid date format"
	MsgExportSuccess   = "Milestone calendar generated"
	MsgBucketsBuilt    = "Graph buckets built"
	MsgRecordsDropped  = "Records outside the graph horizon"
	MsgServerListen    = "HTTP server listening"
	MsgServerStop      = "Shutting down HTTP server..."
	MsgCacheUpdated    = "Calendar cache updated"
	MsgBadRequest      = "Rejected request"
	MsgWorkerStart     = "Background refresher started"
	MsgWorkerStop      = "Refresher stopping due to context cancellation"
	MsgLocaleSkip      = "Skipping non-locale file"
	MsgLocaleBadName   = "Skipping malformed locale filename"
	MsgLocaleLoaded    = "Locale loaded successfully"
	MsgTransMissing    = "Missing translation key"
	MsgPassFail        = "Password retrieval failed (might be empty)"
	MsgLogWarning      = "Warning: %s at %s: %v\n"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyStore     = "store"
	LogKeyPath      = "path"
	LogKeyUser      = "user"
	LogKeyValue     = "value"
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeyDOB       = "date_of_birth"
	LogKeyDue       = "due_date"
	LogKeyPeriod    = "period"
	LogKeyBuckets   = "buckets"
	LogKeyDropped   = "dropped"
	LogKeyEvents    = "events"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyRoute     = "route"
	LogKeyInterval  = "interval"
	LogKeyDuration  = "duration_ms"
	LogKeyMediaType = "media_type"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompGraph   = "graph"
	CompProfile = "profile"
	CompExport  = "export"
	CompServer  = "server"
	CompFetcher = "fetcher"
	CompStore   = "store"
	CompWorker  = "worker"
	CompMain    = "main"
	CompI18n    = "i18n"
)
