// Package ics converts the event collection to and from iCalendar, for
// exporting the local collection and for seeding it from an .ics file.
package ics

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"eventbook/internal/domain"
)

const productID = "-//eventbook//EN"

// Encode writes the events as a single VCALENDAR stream.
func Encode(w io.Writer, events []*domain.Event) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	for _, event := range events {
		cal.Children = append(cal.Children, toComponent(event))
	}
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

func toComponent(event *domain.Event) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, event.ID)
	ve.Props.SetText(ical.PropSummary, event.Title)
	ve.Props.SetText(ical.PropDescription, event.Description)
	ve.Props.SetText(ical.PropCategories, string(event.Category))
	ve.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, event.Start)
	ve.Props.SetDateTime(ical.PropDateTimeEnd, event.End)
	if event.Location != "" {
		ve.Props.SetText(ical.PropLocation, event.Location)
	}
	if event.EventLink != "" {
		ve.Props.SetText(ical.PropURL, event.EventLink)
	}
	if event.Organizer.Email != "" {
		p := ical.NewProp(ical.PropOrganizer)
		p.SetText(fmt.Sprintf("mailto:%s", event.Organizer.Email))
		p.Params.Set(ical.ParamCommonName, event.Organizer.UserName)
		ve.Props.Add(p)
	}
	return ve
}

// Decode parses a VCALENDAR stream into events. The event type is inferred:
// a component with a LOCATION is in-person, otherwise it is online with the
// URL as the event link.
func Decode(r io.Reader) ([]*domain.Event, error) {
	cal, err := ical.NewDecoder(r).Decode()
	if err != nil {
		return nil, fmt.Errorf("decode calendar: %w", err)
	}

	var events []*domain.Event
	for _, ve := range cal.Events() {
		event, err := fromComponent(ve)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

func fromComponent(ve ical.Event) (*domain.Event, error) {
	summary, err := ve.Props.Text(ical.PropSummary)
	if err != nil {
		return nil, fmt.Errorf("read summary: %w", err)
	}
	start, err := ve.DateTimeStart(time.Local)
	if err != nil {
		return nil, fmt.Errorf("event %q: read start: %w", summary, err)
	}
	end, err := ve.DateTimeEnd(time.Local)
	if err != nil {
		return nil, fmt.Errorf("event %q: read end: %w", summary, err)
	}

	uid, _ := ve.Props.Text(ical.PropUID)
	description, _ := ve.Props.Text(ical.PropDescription)
	location, _ := ve.Props.Text(ical.PropLocation)
	link, _ := ve.Props.Text(ical.PropURL)
	categoryText, _ := ve.Props.Text(ical.PropCategories)

	category := domain.Category(strings.ToLower(categoryText))
	if !category.Valid() {
		category = domain.CategoryOther
	}

	event := &domain.Event{
		ID:          uid,
		Title:       summary,
		Description: description,
		Location:    location,
		EventLink:   link,
		Start:       start,
		End:         end,
		Category:    category,
	}
	if location != "" {
		event.EventType = domain.EventTypeInPerson
	} else {
		event.EventType = domain.EventTypeOnline
	}

	if p := ve.Props.Get(ical.PropOrganizer); p != nil {
		event.Organizer = domain.Organizer{
			UserName: p.Params.Get(ical.ParamCommonName),
			Email:    strings.TrimPrefix(p.Value, "mailto:"),
		}
	}
	return event, nil
}
