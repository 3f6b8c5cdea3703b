package entities

// PermissionState describes the platform geolocation permission as seen by
// the engine for the current session.
type PermissionState string

const (
	// PermissionGranted means a position fix can be requested without prompting
	PermissionGranted PermissionState = "granted"

	// PermissionDenied means the user refused access, now or in a past session
	PermissionDenied PermissionState = "denied"

	// PermissionPrompt means requesting a fix will prompt the user
	PermissionPrompt PermissionState = "prompt"

	// PermissionUnsupported means the platform exposes no geolocation capability
	PermissionUnsupported PermissionState = "unsupported"
)
