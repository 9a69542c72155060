package aixfs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Attribute maps one AIX filesystem attribute to a logical property.
// Encode produces the crfs/chfs argument fragment for a value; Decode turns
// the raw lsfs value into the logical value. A nil Decode passes the raw
// value through; a nil Encode emits nothing.
type Attribute struct {
	System   string
	Property Property
	Encode   func(value string) ([]string, error)
	Decode   func(raw string) (string, error)
}

// Attributes is the complete translation table. Order matters: Encode emits
// arguments in table order.
var Attributes = []Attribute{
	{System: "automount", Property: PropAtBoot, Encode: encodeAtBoot, Decode: decodeAutomount},
	{System: "device", Property: PropDevice, Encode: encodeDevice},
	{System: "nodename", Property: PropNodename},
	{System: "vfs", Property: PropFSType, Encode: flag("-v")},
	{System: "options", Property: PropOptions, Encode: attr("options"), Decode: decodeOptions},
	{System: "size", Property: PropSize, Encode: attr("size")},
	{System: "volume", Property: PropVolume, Encode: flag("-g")},
}

var errEmptyOptions = errors.New("parameter options must not be empty")

// Lookup returns the table entry for a logical property.
func Lookup(p Property) (Attribute, bool) {
	for _, a := range Attributes {
		if a.Property == p {
			return a, true
		}
	}
	return Attribute{}, false
}

func flag(name string) func(string) ([]string, error) {
	return func(value string) ([]string, error) {
		return []string{name, value}, nil
	}
}

func attr(key string) func(string) ([]string, error) {
	return func(value string) ([]string, error) {
		return []string{"-a", key + "=" + value}, nil
	}
}

func encodeAtBoot(value string) ([]string, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, fmt.Errorf("atboot must be a boolean, got %q", value)
	}
	if b {
		return []string{"-A", "yes"}, nil
	}
	return []string{"-A", "no"}, nil
}

// encodeDevice splits "node:path" into the nodename and device flags.
func encodeDevice(value string) ([]string, error) {
	if node, dev, ok := strings.Cut(value, ":"); ok {
		return []string{"-n", node, "-d", dev}, nil
	}
	return []string{"-d", value}, nil
}

func decodeAutomount(raw string) (string, error) {
	return FormatBool(strings.EqualFold(raw, "yes")), nil
}

func decodeOptions(raw string) (string, error) {
	if raw == "" {
		return "", errEmptyOptions
	}
	return raw, nil
}

// Encode converts properties into an argument list in table order.
// Properties without a table entry, such as dump and pass, are dropped.
func Encode(name string, props Properties) ([]string, error) {
	var args []string
	for _, a := range Attributes {
		value, ok := props[a.Property]
		if !ok || a.Encode == nil {
			continue
		}
		frag, err := a.Encode(value)
		if err != nil {
			return nil, configError(name, "%v", err)
		}
		args = append(args, frag...)
	}
	return args, nil
}

// Decode converts one lsfs record, keyed by lowercase attribute name, into
// observed properties. Fields are decoded independently first and then the
// nodename is folded into the device.
func Decode(name string, record map[string]string) (Properties, error) {
	props := make(Properties, len(Attributes))
	for _, a := range Attributes {
		raw, ok := record[a.System]
		if !ok {
			continue
		}
		value := raw
		if a.Decode != nil {
			v, err := a.Decode(raw)
			if err != nil {
				return nil, configError(name, "%v", err)
			}
			value = v
		}
		props[a.Property] = value
	}
	mergeDeviceAndNodename(props)
	return props, nil
}

// mergeDeviceAndNodename rewrites device as "nodename:device" when both
// are present and non-empty.
func mergeDeviceAndNodename(props Properties) {
	node := props[PropNodename]
	dev := props[PropDevice]
	if node == "" || dev == "" {
		return
	}
	if strings.HasPrefix(dev, node+":") {
		return
	}
	props[PropDevice] = node + ":" + dev
}
