package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/gousb"
)

// USBTMC interface class codes.
const (
	usbtmcClass    gousb.Class = 0xfe
	usbtmcSubClass gousb.Class = 0x03

	usbtmcMaxTransfer = 64 * 1024
)

// USBTMC opens USB Test & Measurement Class instruments
// (USB[n]::0xVVVV::0xPPPP::serial::INSTR).
type USBTMC struct{}

// Enumerate lists every attached USBTMC device. Devices whose serial number
// cannot be read are skipped.
func (u *USBTMC) Enumerate(ctx context.Context) ([]string, error) {
	usb := gousb.NewContext()
	defer usb.Close()

	devs, err := usb.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		_, _, _, ok := findUSBTMCInterface(desc)
		return ok
	})
	defer func() {
		for _, d := range devs {
			d.Close()
		}
	}()
	if err != nil && len(devs) == 0 {
		return nil, fmt.Errorf("failed to enumerate USB devices: %w", err)
	}

	var resources []string
	for _, d := range devs {
		serial, err := d.SerialNumber()
		if err != nil {
			continue
		}
		resources = append(resources, USBResource(uint16(d.Desc.Vendor), uint16(d.Desc.Product), serial))
	}
	return resources, nil
}

// Handles reports whether resource is a USB INSTR identifier.
func (u *USBTMC) Handles(resource string) bool {
	_, err := ParseUSBResource(resource)
	return err == nil
}

// Open claims the USBTMC interface of the device named by resource.
func (u *USBTMC) Open(ctx context.Context, resource string, opts OpenOptions) (Conn, error) {
	opts = opts.withDefaults()
	id, err := ParseUSBResource(resource)
	if err != nil {
		return nil, err
	}

	usb := gousb.NewContext()
	devs, err := usb.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return uint16(desc.Vendor) == id.VendorID && uint16(desc.Product) == id.ProductID
	})
	if err != nil && len(devs) == 0 {
		usb.Close()
		return nil, fmt.Errorf("failed to open USB device: %w", err)
	}

	var dev *gousb.Device
	for _, d := range devs {
		if dev == nil && serialMatches(d, id.Serial) {
			dev = d
			continue
		}
		d.Close()
	}
	if dev == nil {
		usb.Close()
		return nil, fmt.Errorf("USB device %s not found", resource)
	}

	conn, err := claimUSBTMC(usb, dev, opts)
	if err != nil {
		dev.Close()
		usb.Close()
		return nil, err
	}
	return conn, nil
}

func serialMatches(d *gousb.Device, serial string) bool {
	if serial == "" {
		return true
	}
	got, err := d.SerialNumber()
	return err == nil && got == serial
}

func claimUSBTMC(usb *gousb.Context, dev *gousb.Device, opts OpenOptions) (*usbtmcConn, error) {
	cfgNum, ifNum, alt, ok := findUSBTMCInterface(dev.Desc)
	if !ok {
		return nil, errors.New("device has no USBTMC interface")
	}
	if err := dev.SetAutoDetach(true); err != nil {
		return nil, fmt.Errorf("failed to set auto-detach: %w", err)
	}
	cfg, err := dev.Config(cfgNum)
	if err != nil {
		return nil, fmt.Errorf("failed to select config %d: %w", cfgNum, err)
	}
	intf, err := cfg.Interface(ifNum, alt)
	if err != nil {
		cfg.Close()
		return nil, fmt.Errorf("failed to claim interface %d: %w", ifNum, err)
	}

	inNum, outNum := -1, -1
	for _, ep := range intf.Setting.Endpoints {
		if ep.TransferType != gousb.TransferTypeBulk {
			continue
		}
		if ep.Direction == gousb.EndpointDirectionIn {
			inNum = ep.Number
		} else {
			outNum = ep.Number
		}
	}
	if inNum < 0 || outNum < 0 {
		intf.Close()
		cfg.Close()
		return nil, errors.New("USBTMC interface lacks bulk endpoints")
	}
	epIn, err := intf.InEndpoint(inNum)
	if err != nil {
		intf.Close()
		cfg.Close()
		return nil, fmt.Errorf("failed to open bulk-in endpoint: %w", err)
	}
	epOut, err := intf.OutEndpoint(outNum)
	if err != nil {
		intf.Close()
		cfg.Close()
		return nil, fmt.Errorf("failed to open bulk-out endpoint: %w", err)
	}

	return &usbtmcConn{
		usb:     usb,
		dev:     dev,
		cfg:     cfg,
		intf:    intf,
		in:      epIn,
		out:     epOut,
		term:    opts.Terminator,
		timeout: opts.Timeout,
	}, nil
}

// findUSBTMCInterface returns the first config/interface/alternate setting
// that declares the USBTMC class.
func findUSBTMCInterface(desc *gousb.DeviceDesc) (cfg, intf, alt int, ok bool) {
	for _, c := range desc.Configs {
		for _, i := range c.Interfaces {
			for _, s := range i.AltSettings {
				if s.Class == usbtmcClass && s.SubClass == usbtmcSubClass {
					return c.Number, i.Number, s.Alternate, true
				}
			}
		}
	}
	return 0, 0, 0, false
}

type usbtmcConn struct {
	usb  *gousb.Context
	dev  *gousb.Device
	cfg  *gousb.Config
	intf *gousb.Interface
	in   *gousb.InEndpoint
	out  *gousb.OutEndpoint

	tag     byte
	term    byte
	timeout time.Duration
	closed  bool
}

// WriteLine sends text and the terminator as one DEV_DEP_MSG_OUT message.
func (c *usbtmcConn) WriteLine(text string) error {
	if c.closed {
		return ErrClosed
	}
	c.tag = nextTag(c.tag)
	frame := encodeDevDepMsgOut(c.tag, append([]byte(text), c.term))

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	if _, err := c.out.WriteContext(ctx, frame); err != nil {
		if ctx.Err() != nil {
			return ErrTimeout
		}
		return err
	}
	return nil
}

// ReadLine requests bulk-in transfers until the device signals end of
// message, then strips the terminator.
func (c *usbtmcConn) ReadLine(timeout time.Duration) (string, error) {
	if c.closed {
		return "", ErrClosed
	}
	if timeout <= 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var msg []byte
	buf := make([]byte, usbtmcHeaderSize+usbtmcMaxTransfer)
	for {
		c.tag = nextTag(c.tag)
		req := encodeRequestDevDepMsgIn(c.tag, usbtmcMaxTransfer, c.term)
		if _, err := c.out.WriteContext(ctx, req); err != nil {
			return "", c.ioErr(ctx, err)
		}
		n, err := c.in.ReadContext(ctx, buf)
		if err != nil {
			return "", c.ioErr(ctx, err)
		}
		payload, eom, err := decodeDevDepMsgIn(c.tag, buf[:n])
		if err != nil {
			return "", err
		}
		msg = append(msg, payload...)
		if eom || bytes.IndexByte(payload, c.term) >= 0 {
			break
		}
	}
	if i := bytes.IndexByte(msg, c.term); i >= 0 {
		msg = msg[:i]
	}
	return strings.TrimRight(string(msg), "\r"), nil
}

func (c *usbtmcConn) ioErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ErrTimeout
	}
	return err
}

// Close releases the interface, config, device and libusb context.
func (c *usbtmcConn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.intf.Close()
	err := c.cfg.Close()
	if derr := c.dev.Close(); err == nil {
		err = derr
	}
	if uerr := c.usb.Close(); err == nil {
		err = uerr
	}
	return err
}

// USBID identifies a USB instrument.
type USBID struct {
	VendorID  uint16
	ProductID uint16
	Serial    string
}

// USBResource formats a USB INSTR identifier.
func USBResource(vendorID, productID uint16, serial string) string {
	return fmt.Sprintf("USB0::0x%04X::0x%04X::%s::INSTR", vendorID, productID, serial)
}

// ParseUSBResource parses USB[n]::0xVVVV::0xPPPP::serial[::intf]::INSTR.
func ParseUSBResource(resource string) (USBID, error) {
	parts := strings.Split(resource, "::")
	if (len(parts) != 5 && len(parts) != 6) ||
		!strings.HasPrefix(strings.ToUpper(parts[0]), "USB") ||
		!strings.EqualFold(parts[len(parts)-1], "INSTR") {
		return USBID{}, fmt.Errorf("%w: %q is not a USB resource", ErrUnsupportedResource, resource)
	}
	vid, err := parseHex16(parts[1])
	if err != nil {
		return USBID{}, fmt.Errorf("%w: %q vendor id: %v", ErrUnsupportedResource, resource, err)
	}
	pid, err := parseHex16(parts[2])
	if err != nil {
		return USBID{}, fmt.Errorf("%w: %q product id: %v", ErrUnsupportedResource, resource, err)
	}
	return USBID{VendorID: vid, ProductID: pid, Serial: parts[3]}, nil
}

func parseHex16(s string) (uint16, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(s, 16, 16)
	return uint16(v), err
}
