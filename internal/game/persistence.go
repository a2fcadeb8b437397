package game

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const saveNotice = "Game world is being saved."

// Build constructs a world from doc. Problems that leave the world usable,
// such as a door naming a room that does not exist, are logged and returned
// as warnings instead of failing the load.
func Build(doc *Document, log *zap.Logger) (*World, []string) {
	if log == nil {
		log = zap.NewNop()
	}
	w := NewWorld()
	w.log = log
	w.welcome = doc.Welcome
	w.goodbye = doc.Goodbye

	var warnings []string
	warn := func(msg string, fields ...zap.Field) {
		log.Warn(msg, fields...)
		warnings = append(warnings, fmt.Sprintf("%s %s", msg, describeFields(fields)))
	}

	var characters []CharacterRecord
	for _, rr := range doc.Rooms {
		room := NewRoom(rr.Name, rr.Description)
		room.hook = rr.Hook
		for _, dr := range rr.Doors {
			d := NewDoor(dr.Name, dr.Description, nil, dr.Synonyms...)
			d.targetName = dr.Target
			room.AddDoor(d)
		}
		for _, ir := range rr.Items {
			room.Place(buildItem(ir))
		}
		for _, mr := range rr.Maps {
			room.Place(buildMap(mr))
		}
		for _, nr := range rr.NPCs {
			room.Place(buildNPC(nr))
		}
		for _, cr := range rr.Characters {
			characters = append(characters, cr)
		}
		w.rooms = append(w.rooms, room)
	}

	for _, room := range w.rooms {
		for _, d := range room.doors {
			d.target = w.roomByNameLocked(d.targetName)
			if d.target == nil {
				warn("door target not found",
					zap.String("room", room.name),
					zap.String("door", d.name),
					zap.String("target", d.targetName))
			}
		}
	}

	for _, rec := range characters {
		if len(w.rooms) == 0 {
			break
		}
		c := NewPlayer(rec.Name, rec.Description, rec.Synonyms...)
		c.hitPoints = defaultHitPoints
		if rec.HitPoints != nil {
			c.hitPoints = *rec.HitPoints
		}
		c.xp = rec.XP
		location := w.rooms[0]
		if rec.Location >= 0 && rec.Location < len(w.rooms) {
			location = w.rooms[rec.Location]
		} else {
			warn("character location out of range",
				zap.String("character", c.name),
				zap.Int("location", rec.Location))
		}
		c.lastRoom = location
		if rec.LastRoom != nil {
			if *rec.LastRoom >= 0 && *rec.LastRoom < len(w.rooms) {
				c.lastRoom = w.rooms[*rec.LastRoom]
			} else {
				warn("character last room out of range",
					zap.String("character", c.name),
					zap.Int("last_room", *rec.LastRoom))
			}
		}
		for _, ir := range rec.Items {
			c.Carry(buildItem(ir))
		}
		for _, mr := range rec.Maps {
			c.Carry(buildMap(mr))
		}
		location.Place(c)
	}
	return w, warnings
}

func describeFields(fields []zap.Field) string {
	enc := zapcore.NewMapObjectEncoder()
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		f.AddTo(enc)
		parts = append(parts, fmt.Sprintf("%s=%v", f.Key, enc.Fields[f.Key]))
	}
	return strings.Join(parts, " ")
}

func buildItem(rec ItemRecord) *Item {
	it := NewItem(rec.Name, rec.Description, rec.Synonyms...)
	for _, cmd := range rec.Commands {
		it.SetCommand(cmd.Verb, cmd.Script)
	}
	it.hook = rec.Hook
	return it
}

func buildMap(rec MapRecord) *Item {
	return NewMap(rec.Name, rec.Description, Atlas{Art: rec.Art, Targets: rec.Targets}, rec.Synonyms...)
}

func buildNPC(rec NPCRecord) *Character {
	c := NewNPC(rec.Name, rec.Description, Persona{
		Greeting:  rec.Greeting,
		Farewell:  rec.Farewell,
		Dismissal: rec.Dismissal,
		Dialogues: buildDialogues(rec.Dialogues),
	}, rec.Synonyms...)
	if rec.HitPoints != nil {
		c.hitPoints = *rec.HitPoints
	}
	c.xp = rec.XP
	return c
}

func buildDialogues(recs []DialogueRecord) []*Dialogue {
	if len(recs) == 0 {
		return nil
	}
	out := make([]*Dialogue, 0, len(recs))
	for _, rec := range recs {
		out = append(out, &Dialogue{
			Trigger:  rec.Trigger,
			Line:     rec.Line,
			Action:   rec.Action,
			Children: buildDialogues(rec.Children),
		})
	}
	return out
}

// Export captures the world as a document. Conversation state is not saved.
func (w *World) Export() *Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.exportLocked()
}

func (w *World) exportLocked() *Document {
	doc := &Document{Welcome: w.welcome, Goodbye: w.goodbye}
	for _, room := range w.rooms {
		rr := RoomRecord{Name: room.name, Description: room.description, Hook: room.hook}
		for _, d := range room.doors {
			rr.Doors = append(rr.Doors, DoorRecord{
				Name:        d.name,
				Description: d.description,
				Target:      d.TargetName(),
				Synonyms:    d.Synonyms(),
			})
		}
		for _, e := range room.contents {
			switch v := e.(type) {
			case *Item:
				if v.atlas != nil {
					rr.Maps = append(rr.Maps, mapRecord(v))
				} else {
					rr.Items = append(rr.Items, itemRecord(v))
				}
			case *Character:
				if v.persona != nil {
					rr.NPCs = append(rr.NPCs, npcRecord(v))
				} else {
					rr.Characters = append(rr.Characters, w.characterRecordLocked(v))
				}
			}
		}
		doc.Rooms = append(doc.Rooms, rr)
	}
	return doc
}

func itemRecord(it *Item) ItemRecord {
	rec := ItemRecord{Name: it.name, Description: it.description, Synonyms: it.Synonyms(), Hook: it.hook}
	for _, cmd := range it.Commands() {
		rec.Commands = append(rec.Commands, CommandRecord{Verb: cmd.Verb, Script: cmd.Script})
	}
	return rec
}

func mapRecord(it *Item) MapRecord {
	return MapRecord{
		Name:        it.name,
		Description: it.description,
		Art:         it.atlas.Art,
		Synonyms:    it.Synonyms(),
		Targets:     append([]string(nil), it.atlas.Targets...),
	}
}

func npcRecord(c *Character) NPCRecord {
	hp := c.hitPoints
	return NPCRecord{
		Name:        c.name,
		Description: c.description,
		Synonyms:    c.Synonyms(),
		HitPoints:   &hp,
		XP:          c.xp,
		Greeting:    c.persona.Greeting,
		Farewell:    c.persona.Farewell,
		Dismissal:   c.persona.Dismissal,
		Dialogues:   dialogueRecords(c.persona.Dialogues),
	}
}

func dialogueRecords(ds []*Dialogue) []DialogueRecord {
	if len(ds) == 0 {
		return nil
	}
	out := make([]DialogueRecord, 0, len(ds))
	for _, d := range ds {
		out = append(out, DialogueRecord{
			Trigger:  d.Trigger,
			Line:     d.Line,
			Action:   d.Action,
			Children: dialogueRecords(d.Children),
		})
	}
	return out
}

func (w *World) characterRecordLocked(c *Character) CharacterRecord {
	hp := c.hitPoints
	rec := CharacterRecord{
		Name:        c.name,
		Description: c.description,
		Synonyms:    c.Synonyms(),
		HitPoints:   &hp,
		XP:          c.xp,
		Location:    max(w.indexOfLocked(c.Location()), 0),
	}
	if c.lastRoom != nil {
		if last := w.indexOfLocked(c.lastRoom); last >= 0 {
			rec.LastRoom = &last
		}
	}
	for _, e := range c.inventory {
		if it, ok := e.(*Item); ok {
			if it.atlas != nil {
				rec.Maps = append(rec.Maps, mapRecord(it))
			} else {
				rec.Items = append(rec.Items, itemRecord(it))
			}
		}
	}
	return rec
}

// Save tells every session the world is being saved and writes the current
// world to the attached archive. Without an archive it returns ErrNoArchive
// and says nothing.
func (w *World) Save() error {
	w.mu.RLock()
	archive := w.archive
	if archive == nil {
		w.mu.RUnlock()
		return ErrNoArchive
	}
	o := w.observer
	for _, s := range w.sessions {
		s.Tell(saveNotice)
	}
	doc := w.exportLocked()
	w.mu.RUnlock()

	err := archive.Save(doc)
	if err != nil {
		err = fmt.Errorf("save world: %w", err)
	}
	o.WorldSaved(err)
	return err
}

// Restore replaces the world's rooms with the latest archived document. It
// refuses while any character is logged in.
func (w *World) Restore() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.onlineLocked() > 0 {
		return ErrPlayersOnline
	}
	if w.archive == nil {
		return ErrNoArchive
	}
	doc, err := w.archive.Latest()
	if err != nil {
		return fmt.Errorf("restore world: %w", err)
	}
	fresh, warnings := Build(doc, w.log)
	w.rooms = fresh.rooms
	w.welcome = fresh.welcome
	w.goodbye = fresh.goodbye
	w.log.Info("world restored", zap.Int("rooms", len(w.rooms)), zap.Int("warnings", len(warnings)))
	w.observer.RoomsChanged(len(w.rooms))
	return nil
}

// Shutdown tells every session the server is going down and stops serving.
func (w *World) Shutdown() {
	w.mu.RLock()
	stop := w.shutdown
	log := w.log
	for _, s := range w.sessions {
		s.Tell("The server is shutting down.")
	}
	w.mu.RUnlock()
	log.Info("shutdown requested")
	if stop != nil {
		stop()
	}
}
