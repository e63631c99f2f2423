package analysis

// wordScores maps lowercase words to sentiment weights in [-5, 5].
// Words mapped to 0 are recognized as informative but neutral; they count
// toward the scored-token denominator without moving the average.
var wordScores = map[string]int{
	// strong positive
	"excellent": 5, "amazing": 5, "outstanding": 5, "fantastic": 5,
	"brilliant": 5, "love": 5, "adore": 5,
	// positive
	"wonderful": 4, "great": 4, "awesome": 4, "perfect": 4, "superb": 4,
	"enjoy": 4, "appreciate": 4, "helpful": 4, "useful": 4, "beneficial": 4,
	"valuable": 4, "excited": 4, "happy": 4, "pleased": 4, "impressed": 4,
	// mild positive
	"good": 3, "nice": 3, "fine": 3, "like": 3, "satisfied": 3,
	"surprised": 3, "interested": 3,
	"okay": 2, "alright": 2,
	// strong negative
	"terrible": -5, "awful": -5, "horrible": -5, "dreadful": -5,
	"atrocious": -5, "hate": -5, "despise": -5, "loathe": -5, "worst": -5,
	// negative
	"worse": -4, "angry": -4, "useless": -4, "pointless": -4,
	"worthless": -4, "meaningless": -4,
	"bad": -3, "poor": -3, "dislike": -3, "disappointed": -3,
	"frustrated": -3, "annoyed": -3, "irritated": -3, "boring": -3,
	"tedious": -3, "monotonous": -3,
	// mild negative
	"confused": -2, "lost": -2, "unsure": -2, "uncertain": -2,
	"repetitive": -2, "difficult": -2, "hard": -2,
	"challenging": -1, "complex": -1,
	// neutral hedges and inquiry words
	"maybe": 0, "perhaps": 0, "possibly": 0, "might": 0, "could": 0,
	"think": 0, "believe": 0, "suppose": 0, "guess": 0,
	"question": 0, "ask": 0, "wonder": 0, "curious": 0,
	"explain": 0, "describe": 0, "tell": 0, "show": 0,
	"understand": 0, "learn": 0, "know": 0, "see": 0,
}

// emojiScores maps emoji runes to sentiment weights in [-5, 5].
var emojiScores = map[rune]int{
	'😀': 3, '😃': 3, '😄': 4, '😁': 4, '😆': 4, '😊': 4,
	'🙂': 2, '😉': 2, '😍': 5, '🥰': 5, '😘': 4, '🤩': 5,
	'😎': 3, '🤗': 3, '👍': 3, '👏': 4, '🎉': 5, '❤': 5,
	'💕': 4, '🔥': 4, '💯': 5, '✨': 3, '🙏': 3, '😂': 4, '🤣': 4,
	'😢': -3, '😭': -4, '😞': -3, '😔': -3, '😟': -3,
	'😠': -4, '😡': -5, '🤬': -5, '👎': -3, '💔': -4,
	'😕': -2, '😩': -3, '😫': -4, '😤': -3, '🙄': -2,
	'😐': 0, '😑': 0, '🤔': 0,
}
