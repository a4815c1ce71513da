package room

import (
	"github.com/42wim/matterbridge/bridge/helper"
	strip "github.com/grokify/html-strip-tags-go"
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"
)

const formatHTML = "org.matrix.custom.html"

func (r *Room) SendText(text string) (id.EventID, error) {
	return r.send(&event.MessageEventContent{
		MsgType: event.MsgText,
		Body:    text,
	})
}

// SendHTML sends html as a formatted message. An empty body is derived from
// html with its tags stripped; an empty msgtype means m.text.
func (r *Room) SendHTML(html, body string, msgtype event.MessageType) (id.EventID, error) {
	if body == "" {
		body = strip.StripTags(html)
	}

	if msgtype == "" {
		msgtype = event.MsgText
	}

	return r.send(&event.MessageEventContent{
		MsgType:       msgtype,
		Body:          body,
		Format:        formatHTML,
		FormattedBody: html,
	})
}

// SendMarkdown renders text as markdown and sends both forms.
func (r *Room) SendMarkdown(text string) (id.EventID, error) {
	return r.send(&event.MessageEventContent{
		MsgType:       event.MsgText,
		Body:          text,
		Format:        formatHTML,
		FormattedBody: helper.ParseMarkdown(text),
	})
}

func (r *Room) SendEmote(text string) (id.EventID, error) {
	return r.send(&event.MessageEventContent{
		MsgType: event.MsgEmote,
		Body:    text,
	})
}

func (r *Room) SendNotice(text string) (id.EventID, error) {
	return r.send(&event.MessageEventContent{
		MsgType: event.MsgNotice,
		Body:    text,
	})
}

// SendFile sends a link to already uploaded content. info holds the optional
// file metadata (mimetype, size, ...).
func (r *Room) SendFile(url, name string, info map[string]interface{}) (id.EventID, error) {
	return r.SendMedia(event.MsgFile, url, name, info)
}

func (r *Room) SendImage(url, name string, info map[string]interface{}) (id.EventID, error) {
	return r.SendMedia(event.MsgImage, url, name, info)
}

func (r *Room) SendAudio(url, name string, info map[string]interface{}) (id.EventID, error) {
	return r.SendMedia(event.MsgAudio, url, name, info)
}

func (r *Room) SendVideo(url, name string, info map[string]interface{}) (id.EventID, error) {
	return r.SendMedia(event.MsgVideo, url, name, info)
}

func (r *Room) SendMedia(msgtype event.MessageType, url, name string, info map[string]interface{}) (id.EventID, error) {
	content := map[string]interface{}{
		"msgtype": msgtype,
		"body":    name,
		"url":     url,
	}

	if len(info) > 0 {
		content["info"] = info
	}

	return r.send(content)
}

// SendLocation sends a geo: uri. thumbURL and thumbInfo are optional.
func (r *Room) SendLocation(geoURI, name, thumbURL string, thumbInfo map[string]interface{}) (id.EventID, error) {
	content := map[string]interface{}{
		"msgtype": event.MsgLocation,
		"body":    name,
		"geo_uri": geoURI,
	}

	if thumbURL != "" {
		info := map[string]interface{}{
			"thumbnail_url": thumbURL,
		}
		if len(thumbInfo) > 0 {
			info["thumbnail_info"] = thumbInfo
		}

		content["info"] = info
	}

	return r.send(content)
}

func (r *Room) send(content interface{}) (id.EventID, error) {
	eventID, err := r.admin.SendMessageEvent(r.id, event.EventMessage, content)
	if err != nil {
		r.log.Errorf("send message: %s", err)
		return "", err
	}

	r.log.Tracef("sent %s", eventID)

	return eventID, nil
}
