package game

import "encoding/xml"

// Document is the persisted form of a world. The same records are encoded
// as XML by the world file archive and as JSON by the snapshot store.
type Document struct {
	XMLName xml.Name     `xml:"world" json:"-"`
	Welcome string       `xml:"welcome-message" json:"welcome"`
	Goodbye string       `xml:"goodbye-message" json:"goodbye"`
	Rooms   []RoomRecord `xml:"room" json:"rooms"`
}

type RoomRecord struct {
	Name        string            `xml:"name" json:"name"`
	Description string            `xml:"description" json:"description"`
	Hook        string            `xml:"hook,omitempty" json:"hook,omitempty"`
	Doors       []DoorRecord      `xml:"door" json:"doors,omitempty"`
	Items       []ItemRecord      `xml:"item" json:"items,omitempty"`
	Maps        []MapRecord       `xml:"mapitem" json:"maps,omitempty"`
	NPCs        []NPCRecord       `xml:"npc" json:"npcs,omitempty"`
	Characters  []CharacterRecord `xml:"game-character" json:"characters,omitempty"`
}

type DoorRecord struct {
	Name        string   `xml:"name" json:"name"`
	Description string   `xml:"description" json:"description"`
	Target      string   `xml:"target" json:"target"`
	Synonyms    []string `xml:"synonym" json:"synonyms,omitempty"`
}

type ItemRecord struct {
	Name        string          `xml:"name" json:"name"`
	Description string          `xml:"description" json:"description"`
	Synonyms    []string        `xml:"synonym" json:"synonyms,omitempty"`
	Commands    []CommandRecord `xml:"command" json:"commands,omitempty"`
	Hook        string          `xml:"hook,omitempty" json:"hook,omitempty"`
}

type CommandRecord struct {
	Verb   string `xml:"verb,attr" json:"verb"`
	Script string `xml:",chardata" json:"script"`
}

type MapRecord struct {
	Name        string   `xml:"name" json:"name"`
	Description string   `xml:"description" json:"description"`
	Art         string   `xml:"art" json:"art"`
	Synonyms    []string `xml:"synonym" json:"synonyms,omitempty"`
	Targets     []string `xml:"target" json:"targets,omitempty"`
}

type NPCRecord struct {
	Name        string           `xml:"name" json:"name"`
	Description string           `xml:"description" json:"description"`
	Synonyms    []string         `xml:"synonym" json:"synonyms,omitempty"`
	HitPoints   *int             `xml:"hp" json:"hp,omitempty"`
	XP          int              `xml:"xp" json:"xp"`
	Greeting    string           `xml:"greeting" json:"greeting"`
	Farewell    string           `xml:"farewell" json:"farewell"`
	Dismissal   string           `xml:"dismissal,omitempty" json:"dismissal,omitempty"`
	Dialogues   []DialogueRecord `xml:"dialogue" json:"dialogues,omitempty"`
}

type DialogueRecord struct {
	Trigger  int              `xml:"trigger" json:"trigger"`
	Line     string           `xml:"line" json:"line"`
	Action   string           `xml:"action,omitempty" json:"action,omitempty"`
	Children []DialogueRecord `xml:"dialogue" json:"children,omitempty"`
}

type CharacterRecord struct {
	Name        string       `xml:"name" json:"name"`
	Description string       `xml:"description" json:"description"`
	Synonyms    []string     `xml:"synonym" json:"synonyms,omitempty"`
	HitPoints   *int         `xml:"hp" json:"hp,omitempty"`
	XP          int          `xml:"xp" json:"xp"`
	Location    int          `xml:"location" json:"location"`
	LastRoom    *int         `xml:"last-room" json:"last_room,omitempty"`
	Items       []ItemRecord `xml:"item" json:"items,omitempty"`
	Maps        []MapRecord  `xml:"mapitem" json:"maps,omitempty"`
}
