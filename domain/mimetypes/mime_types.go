// Package mimetypes normalizes the declared content type of message attachments.
package mimetypes

import (
	"chat-hub/domain"
	"mime"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	ImagePrefix = "image/"
	VideoPrefix = "video/"
	AudioPrefix = "audio/"
)

// Normalize lowercases the declared mime type, drops its parameters, fills the extension
// and returns the message type the attachment implies.
// An explicit non-text type always wins over the inferred one.
func Normalize(att domain.Attachment, declared domain.MessageType) (domain.Attachment, domain.MessageType) {
	if mt, _, err := mime.ParseMediaType(att.MimeType); err == nil {
		att.MimeType = mt
		if known := mimetype.Lookup(mt); known != nil && att.Extension == "" {
			att.Extension = known.Extension()
		}
	} else {
		att.MimeType = ""
	}
	if att.Extension == "" && att.FileName != "" {
		att.Extension = strings.ToLower(path.Ext(att.FileName))
	}

	if declared != "" && declared != domain.TextMessage {
		return att, declared
	}
	switch {
	case strings.HasPrefix(att.MimeType, ImagePrefix):
		return att, domain.ImageMessage
	case strings.HasPrefix(att.MimeType, VideoPrefix):
		return att, domain.VideoMessage
	case strings.HasPrefix(att.MimeType, AudioPrefix):
		return att, domain.VoiceMessage
	case att.Latitude != nil && att.Longitude != nil:
		return att, domain.LocationMessage
	case att.URL != "":
		return att, domain.FileMessage
	}
	return att, domain.TextMessage
}
