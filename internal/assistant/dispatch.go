package assistant

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strconv"

	"myassist/internal/intent"
	"myassist/internal/mathexpr"
	"myassist/internal/webapi"
)

// dispatch records the utterance, routes it and runs the matching action.
// Reports whether the session loop should continue; only Exit stops it.
func (s *Session) dispatch(ctx context.Context, cmd string) bool {
	s.history.Add(cmd)

	m := intent.Route(cmd)
	s.log.Debug("routed", "intent", string(m.Intent), "slots", m.Slots, "err", m.Err)

	switch m.Intent {
	case intent.PlayMusic:
		s.playMusic(m)
	case intent.GetTime:
		s.tellTime(m)
	case intent.GetDate:
		s.say("Today is " + s.now().Format("Monday, January 02, 2006"))
	case intent.GetWeather:
		s.tellWeather(ctx, m)
	case intent.OpenTarget:
		s.openTarget(m)
	case intent.WebSearch:
		s.webSearch(m)
	case intent.ControlVolume:
		s.controlVolume(m)
	case intent.SetReminder:
		s.setReminder(m)
	case intent.GetNews:
		s.tellNews(ctx)
	case intent.TellJoke:
		s.acknowledge()
		s.say(jokes[rand.IntN(len(jokes))])
	case intent.Lookup:
		s.lookupInfo(ctx, m)
	case intent.Calculate:
		s.calculate(m)
	case intent.RepeatLast:
		s.repeatLast()
	case intent.Identity:
		s.say(identityText)
	case intent.Exit:
		s.say(farewellText)
		return false
	case intent.Help:
		s.say(helpText)
	case intent.Thanks:
		s.say(thanksResponses[rand.IntN(len(thanksResponses))])
	default:
		s.say("I'm searching for information about that")
		s.openInBrowser(googleSearch(m.Slots["query"]))
	}
	return true
}

// acknowledge speaks a short filler before actions that take a moment.
func (s *Session) acknowledge() {
	s.say(acknowledgements[rand.IntN(len(acknowledgements))])
}

func (s *Session) openInBrowser(target string) bool {
	if s.launch == nil {
		return false
	}
	if err := s.launch.OpenURL(target); err != nil {
		s.log.Error("browser open failed", "target", target, "err", err)
		return false
	}
	return true
}

func googleSearch(query string) string {
	return "https://www.google.com/search?q=" + url.QueryEscape(query)
}

func (s *Session) playMusic(m intent.Match) {
	s.acknowledge()
	title, artist := m.Slots["title"], m.Slots["artist"]
	if m.Err != nil || title == "" {
		s.say("Sorry, I couldn't play that song.")
		return
	}

	var target string
	if s.cfg.MusicService == "spotify" {
		target = "spotify:search:" + title
		if artist != "" {
			target += " artist:" + artist
		}
	} else {
		term := title
		if artist != "" {
			term += " " + artist
		}
		target = "https://music.youtube.com/search?q=" + url.QueryEscape(term)
	}

	if !s.openInBrowser(target) {
		s.say("Sorry, I couldn't play that song.")
		return
	}
	if artist != "" {
		s.say(fmt.Sprintf("Playing %s by %s", title, artist))
	} else {
		s.say("Playing " + title)
	}
}

func (s *Session) tellTime(m intent.Match) {
	if loc := m.Slots["location"]; loc != "" {
		s.acknowledge()
		s.say(fmt.Sprintf("I'm sorry, I don't have the capability to check time in %s yet.", loc))
		return
	}
	s.say("The time is " + s.now().Format("03:04 PM"))
}

func (s *Session) tellWeather(ctx context.Context, m intent.Match) {
	city := m.Slots["city"]
	if city != "" {
		s.acknowledge()
	} else {
		city = s.cfg.DefaultCity
	}
	if s.weather == nil {
		s.say("Sorry, I need an API key to check the weather.")
		return
	}

	report, err := s.weather.Weather(ctx, city)
	switch {
	case errors.Is(err, webapi.ErrNoAPIKey):
		s.say("Sorry, I need an API key to check the weather.")
	case errors.Is(err, webapi.ErrNotFound):
		s.say(fmt.Sprintf("Sorry, I couldn't get the weather information for %s.", city))
	case err != nil:
		s.say("Sorry, there was an error getting the weather information.")
	default:
		s.say(report)
	}
}

func (s *Session) openTarget(m intent.Match) {
	s.acknowledge()
	if m.Slots == nil {
		return
	}
	if !s.openInBrowser(m.Slots["url"]) {
		s.say("Sorry, I couldn't open that.")
		return
	}
	s.say("Opening " + m.Slots["name"])
}

func (s *Session) webSearch(m intent.Match) {
	s.acknowledge()
	query := m.Slots["query"]
	if query == "" {
		return
	}
	if s.openInBrowser(googleSearch(query)) {
		s.say("Searching for " + query)
	}
}

func (s *Session) controlVolume(m intent.Match) {
	s.acknowledge()
	direction := m.Slots["direction"]
	if direction == "" || s.volume == nil {
		return
	}
	if err := s.volume.Volume(direction); err != nil {
		s.log.Error("volume control failed", "direction", direction, "err", err)
		s.say("Sorry, I couldn't control the volume.")
		return
	}
	if direction == "mute" {
		s.say("Muted")
	}
}

func (s *Session) setReminder(m intent.Match) {
	switch {
	case errors.Is(m.Err, intent.ErrNoTimeClause):
		s.say("I couldn't understand when to set the reminder. Please try again.")
		return
	case m.Err != nil:
		s.say("I couldn't understand the time. Please try again.")
		return
	}

	minutes, err := strconv.ParseFloat(m.Slots["minutes"], 64)
	if err != nil {
		s.say("I couldn't understand the time. Please try again.")
		return
	}
	text := m.Slots["text"]
	if _, err := s.reminders.Schedule(text, minutes); err != nil {
		s.say("I couldn't understand the time. Please try again.")
		return
	}
	s.say(fmt.Sprintf("I'll remind you to %s in %s.", text, spokenDelay(minutes)))
}

// spokenDelay phrases a minute count the way a person would say it.
func spokenDelay(minutes float64) string {
	switch {
	case minutes < 1:
		return fmt.Sprintf("%d seconds", int(minutes*60))
	case minutes == 1:
		return "1 minute"
	case minutes < 60:
		return fmt.Sprintf("%d minutes", int(minutes))
	case minutes == 60:
		return "1 hour"
	}
	hours := int(minutes) / 60
	rem := int(minutes) % 60
	phrase := fmt.Sprintf("%d %s", hours, plural("hour", hours))
	if rem > 0 {
		phrase += fmt.Sprintf(" and %d %s", rem, plural("minute", rem))
	}
	return phrase
}

func plural(unit string, n int) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}

func (s *Session) tellNews(ctx context.Context) {
	s.acknowledge()
	if s.news == nil {
		s.say("Sorry, I need a News API key to fetch the latest news.")
		return
	}
	headlines, err := s.news.Headlines(ctx, 3)
	switch {
	case errors.Is(err, webapi.ErrNoAPIKey):
		s.say("Sorry, I need a News API key to fetch the latest news.")
	case err != nil, len(headlines) == 0:
		s.say("Sorry, I couldn't fetch the latest news.")
	default:
		s.say("Here are the top news headlines:")
		for _, h := range headlines {
			s.say(h)
		}
	}
}

func (s *Session) lookupInfo(ctx context.Context, m intent.Match) {
	s.acknowledge()
	query := m.Slots["query"]
	if s.lookup == nil {
		s.say("Sorry, I encountered an error while searching for information.")
		return
	}

	summary, err := s.lookup.Summary(ctx, query)
	switch {
	case errors.Is(err, webapi.ErrAmbiguous):
		s.say(fmt.Sprintf("There are multiple results for %s. Please be more specific.", query))
	case errors.Is(err, webapi.ErrNotFound):
		s.say(fmt.Sprintf("I couldn't find any information about %s.", query))
		s.say("Let me search the web for you instead.")
		s.openInBrowser(googleSearch(query))
	case err != nil:
		s.say("Sorry, I encountered an error while searching for information.")
	default:
		s.say(summary)
	}
}

func (s *Session) calculate(m intent.Match) {
	s.acknowledge()
	if m.Err != nil {
		s.say("Sorry, I can only calculate mathematical expressions.")
		return
	}
	v, err := mathexpr.Evaluate(m.Slots["expression"])
	if err != nil {
		s.log.Debug("evaluation failed", "expression", m.Slots["expression"], "err", err)
		s.say("Sorry, I couldn't calculate that. Please try rephrasing.")
		return
	}
	s.say("The answer is " + mathexpr.Format(v))
}

func (s *Session) repeatLast() {
	if prev, ok := s.history.Previous(); ok {
		s.say("Your last command was: " + prev)
		return
	}
	s.say("You haven't given any commands yet.")
}
