// Package asciiart renders images as text, one character per pixel, from
// darkest '@' to lightest ' '.
//
// ConvertFile reads PNG, JPEG and GIF images. Task wraps a conversion so it
// can be submitted to an engine or a dispatcher.
package asciiart
