// ABOUTME: Version and product identification
// ABOUTME: Reported by the command-line tools and the player header
package version

const (
	Version      = "0.3.0"
	Product      = "earwax"
	Manufacturer = "Sendspin"
)

// String returns the product name and version
func String() string {
	return Product + " " + Version
}
