package intent

import (
	"regexp"
	"strings"

	"myassist/internal/mathexpr"
)

// Intent is the classified purpose of an utterance. The set is closed; there
// is no runtime registration.
type Intent string

const (
	PlayMusic     Intent = "play_music"
	GetTime       Intent = "get_time"
	GetDate       Intent = "get_date"
	GetWeather    Intent = "get_weather"
	OpenTarget    Intent = "open_target"
	WebSearch     Intent = "web_search"
	ControlVolume Intent = "control_volume"
	SetReminder   Intent = "set_reminder"
	GetNews       Intent = "get_news"
	TellJoke      Intent = "tell_joke"
	Lookup        Intent = "lookup"
	Calculate     Intent = "calculate"
	RepeatLast    Intent = "repeat_last"
	Identity      Intent = "identity"
	Exit          Intent = "exit"
	Help          Intent = "help"
	Thanks        Intent = "thanks"
	Unknown       Intent = "unknown"
)

// Slots holds the parameters extracted for a matched intent. Values are
// strings; numeric slots (reminder minutes) are formatted with
// strconv.FormatFloat and parsed back by the dispatcher.
type Slots map[string]string

// Match is the result of routing one normalized utterance. Err is set when
// the matched intent required a slot that could not be extracted; dispatch
// answers with a rephrase prompt instead of acting.
type Match struct {
	Intent Intent
	Slots  Slots
	Err    error
}

type rule struct {
	intent Intent
	match  func(string) bool
}

var calcPattern = regexp.MustCompile(`what('s| is) \d`)

// rules is evaluated strictly in order and the first match wins. Several
// predicates overlap ("what is 12 times 4" satisfies both the lookup and the
// calculate rule), so the order itself is part of the contract. Do not
// reorder.
var rules = []rule{
	{PlayMusic, func(s string) bool { return strings.HasPrefix(s, "play") }},
	{GetTime, contains("time")},
	{GetDate, containsAny("date", "today", "day")},
	{GetWeather, contains("weather")},
	{OpenTarget, contains("open")},
	{WebSearch, containsAny("search", "google", "look up")},
	{ControlVolume, contains("volume")},
	{SetReminder, containsAny("remind", "reminder")},
	{GetNews, containsAny("news", "headlines")},
	{TellJoke, containsAny("joke", "funny", "make me laugh")},
	{Lookup, containsAny("who is", "what is", "tell me about")},
	{Calculate, func(s string) bool { return strings.Contains(s, "calculate") || calcPattern.MatchString(s) }},
	{RepeatLast, containsAny("what did i say", "repeat", "what was my last command")},
	{Identity, containsAny("who are you", "what are you", "your name")},
	{Exit, containsAny("goodbye", "bye", "exit", "stop", "quit", "shut down", "go to sleep")},
	{Help, containsAny("help", "what can you do")},
	{Thanks, containsAny("thank you", "thanks")},
}

func contains(sub string) func(string) bool {
	return func(s string) bool { return strings.Contains(s, sub) }
}

func containsAny(subs ...string) func(string) bool {
	return func(s string) bool {
		for _, sub := range subs {
			if strings.Contains(s, sub) {
				return true
			}
		}
		return false
	}
}

// Route classifies a normalized utterance and extracts the slots the matched
// intent needs. Utterances no rule claims fall through to Unknown, which the
// dispatcher treats as an implicit web search.
func Route(cmd string) Match {
	for _, r := range rules {
		if r.match(cmd) {
			return extract(r.intent, cmd)
		}
	}
	return Match{Intent: Unknown, Slots: Slots{"query": cmd}}
}

func extract(in Intent, cmd string) Match {
	m := Match{Intent: in}
	switch in {
	case PlayMusic:
		m.Slots, m.Err = MusicSlots(cmd)
	case GetTime:
		if strings.Contains(cmd, "in") {
			if loc, ok := locationAfter("time", cmd); ok {
				m.Slots = Slots{"location": loc}
			}
		}
	case GetWeather:
		if strings.Contains(cmd, "in") {
			if city, ok := locationAfter("weather", cmd); ok {
				m.Slots = Slots{"city": city}
			}
		}
	case OpenTarget:
		m.Slots = OpenSlots(cmd)
	case WebSearch:
		m.Slots = Slots{"query": SearchQuery(cmd)}
	case ControlVolume:
		m.Slots = Slots{"direction": VolumeDirection(cmd)}
	case SetReminder:
		m.Slots, m.Err = ReminderSlots(cmd)
	case Lookup:
		m.Slots = Slots{"query": LookupQuery(cmd)}
	case Calculate:
		expr, err := mathexpr.Translate(cmd)
		if err != nil {
			m.Err = err
		} else {
			m.Slots = Slots{"expression": expr}
		}
	}
	return m
}
