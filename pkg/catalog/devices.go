package catalog

// Device is one entry of the read-only device reference table mapping a
// hardware identifier to its architecture metadata.
type Device struct {
	DeviceID  string `json:"deviceId" yaml:"deviceId"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	Arch32Bit bool   `json:"arch32bit" yaml:"arch32bit"`
}

// Devices is the device reference table. It is supplied by the persisted
// catalog configuration and never mutated by the pipeline.
type Devices []Device

// Is32Bit reports whether the device with the given hardware identifier is
// flagged as 32-bit. Unknown devices are not 32-bit.
func (d Devices) Is32Bit(deviceID string) bool {
	for _, device := range d {
		if device.DeviceID == deviceID {
			return device.Arch32Bit
		}
	}
	return false
}
