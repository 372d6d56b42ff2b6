package irc

import "strings"

// NewRFC2812Serializer returns a Serializer preloaded with templates for
// the RFC 2812 client command surface. Commands with optional parameters
// register one template per wire shape, most specific first.
//
// MODE is split into USERMODE and CHANNELMODE so that user and channel
// mode changes can carry differently named fields; both render a MODE
// line. The reverse split for inbound lines happens in Unpack.
func NewRFC2812Serializer() *Serializer {
	s := NewSerializer()
	for _, p := range rfc2812Patterns {
		if err := s.Register(p.command, p.template); err != nil {
			panic(err)
		}
	}
	return s
}

var rfc2812Patterns = []struct {
	command  string
	template string
}{
	// 3.1 Connection Registration
	{"PASS", "PASS {password}"},
	{"NICK", "NICK {nick}"},
	{"USER", "USER {user} {mode} * {realname:text}"},
	{"USER", "USER {user} 0 * {realname:text}"},
	{"OPER", "OPER {user} {password}"},
	{"USERMODE", "MODE {nick} {modes}"},
	{"USERMODE", "MODE {nick}"},
	{"USERMODE", "MODE"},
	{"SERVICE", "SERVICE {nick} * {distribution} {type} 0 {info:text}"},
	{"QUIT", "QUIT {message:text}"},
	{"QUIT", "QUIT"},
	{"SQUIT", "SQUIT {server} {message:text}"},
	{"SQUIT", "SQUIT {server}"},

	// 3.2 Channel Operations
	{"JOIN", "JOIN {channel:comma} {key:comma}"},
	{"JOIN", "JOIN {channel:comma}"},
	{"PART", "PART {channel:comma} {message:text}"},
	{"PART", "PART {channel:comma}"},
	{"CHANNELMODE", "MODE {channel} {params:space}"},
	{"TOPIC", "TOPIC {channel} {message:text}"},
	{"TOPIC", "TOPIC {channel}"},
	{"NAMES", "NAMES {channel:comma} {target}"},
	{"NAMES", "NAMES {channel:comma}"},
	{"NAMES", "NAMES"},
	{"LIST", "LIST {channel:comma} {target}"},
	{"LIST", "LIST {channel:comma}"},
	{"LIST", "LIST"},
	{"INVITE", "INVITE {nick} {channel}"},
	{"KICK", "KICK {channel:comma} {nick:comma} {message:text}"},
	{"KICK", "KICK {channel:comma} {nick:comma}"},

	// 3.3 Sending Messages
	{"PRIVMSG", "PRIVMSG {target} {message:text}"},
	{"NOTICE", "NOTICE {target} {message:text}"},

	// 3.4 Server Queries and Commands
	{"MOTD", "MOTD {target}"},
	{"MOTD", "MOTD"},
	{"LUSERS", "LUSERS {mask} {target}"},
	{"LUSERS", "LUSERS {mask}"},
	{"LUSERS", "LUSERS"},
	{"VERSION", "VERSION {target}"},
	{"VERSION", "VERSION"},
	{"STATS", "STATS {query} {target}"},
	{"STATS", "STATS {query}"},
	{"STATS", "STATS"},
	{"LINKS", "LINKS {remote} {mask}"},
	{"LINKS", "LINKS {mask}"},
	{"LINKS", "LINKS"},
	{"TIME", "TIME {target}"},
	{"TIME", "TIME"},
	{"CONNECT", "CONNECT {target} {port} {remote}"},
	{"CONNECT", "CONNECT {target} {port}"},
	{"TRACE", "TRACE {target}"},
	{"TRACE", "TRACE"},
	{"ADMIN", "ADMIN {target}"},
	{"ADMIN", "ADMIN"},
	{"INFO", "INFO {target}"},
	{"INFO", "INFO"},

	// 3.5 Service Query and Commands
	{"SERVLIST", "SERVLIST {mask} {type}"},
	{"SERVLIST", "SERVLIST {mask}"},
	{"SERVLIST", "SERVLIST"},
	{"SQUERY", "SQUERY {target} {message:text}"},

	// 3.6 User Based Queries
	{"WHO", "WHO {mask} {o:bool}"},
	{"WHO", "WHO {mask}"},
	{"WHO", "WHO"},
	{"WHOIS", "WHOIS {target} {mask:comma}"},
	{"WHOIS", "WHOIS {mask:comma}"},
	{"WHOWAS", "WHOWAS {nick:comma} {count} {target}"},
	{"WHOWAS", "WHOWAS {nick:comma} {count}"},
	{"WHOWAS", "WHOWAS {nick:comma}"},

	// 3.7 Miscellaneous Messages
	{"KILL", "KILL {nick} {message:text}"},
	{"PING", "PING {message:nospace} {target}"},
	{"PING", "PING {message:nospace}"},
	{"PONG", "PONG {message:text}"},
	{"PONG", "PONG"},

	// 4.0 Optional Features
	{"AWAY", "AWAY {message:text}"},
	{"AWAY", "AWAY"},
	{"REHASH", "REHASH"},
	{"DIE", "DIE"},
	{"RESTART", "RESTART"},
	{"SUMMON", "SUMMON {nick} {target} {channel}"},
	{"SUMMON", "SUMMON {nick} {target}"},
	{"SUMMON", "SUMMON {nick}"},
	{"USERS", "USERS {target}"},
	{"USERS", "USERS"},
	{"WALLOPS", "WALLOPS {message:text}"},
	{"USERHOST", "USERHOST {nick:space}"},
	{"ISON", "ISON {nick:space}"},
}

// Synonym resolves a command or reply code to its canonical event name.
// Numeric reply codes map to their RPL_* or ERR_* names; anything else is
// returned upper-cased unchanged, so unknown commands stay addressable.
func Synonym(command string) string {
	command = strings.ToUpper(command)
	if name, ok := numericNames[command]; ok {
		return name
	}
	return command
}

// numericNames maps RFC 2812 section 5 reply codes to their names.
// 244 is listed for both RPL_STATSHLINE and RPL_STATSSLINE in the RFC;
// the HLINE name wins here.
var numericNames = map[string]string{
	"001": "RPL_WELCOME",
	"002": "RPL_YOURHOST",
	"003": "RPL_CREATED",
	"004": "RPL_MYINFO",
	"005": "RPL_BOUNCE",
	"302": "RPL_USERHOST",
	"303": "RPL_ISON",
	"301": "RPL_AWAY",
	"305": "RPL_UNAWAY",
	"306": "RPL_NOWAWAY",
	"311": "RPL_WHOISUSER",
	"312": "RPL_WHOISSERVER",
	"313": "RPL_WHOISOPERATOR",
	"317": "RPL_WHOISIDLE",
	"318": "RPL_ENDOFWHOIS",
	"319": "RPL_WHOISCHANNELS",
	"314": "RPL_WHOWASUSER",
	"369": "RPL_ENDOFWHOWAS",
	"321": "RPL_LISTSTART",
	"322": "RPL_LIST",
	"323": "RPL_LISTEND",
	"325": "RPL_UNIQOPIS",
	"324": "RPL_CHANNELMODEIS",
	"331": "RPL_NOTOPIC",
	"332": "RPL_TOPIC",
	"341": "RPL_INVITING",
	"342": "RPL_SUMMONING",
	"346": "RPL_INVITELIST",
	"347": "RPL_ENDOFINVITELIST",
	"348": "RPL_EXCEPTLIST",
	"349": "RPL_ENDOFEXCEPTLIST",
	"351": "RPL_VERSION",
	"352": "RPL_WHOREPLY",
	"315": "RPL_ENDOFWHO",
	"353": "RPL_NAMREPLY",
	"366": "RPL_ENDOFNAMES",
	"364": "RPL_LINKS",
	"365": "RPL_ENDOFLINKS",
	"367": "RPL_BANLIST",
	"368": "RPL_ENDOFBANLIST",
	"371": "RPL_INFO",
	"374": "RPL_ENDOFINFO",
	"375": "RPL_MOTDSTART",
	"372": "RPL_MOTD",
	"376": "RPL_ENDOFMOTD",
	"381": "RPL_YOUREOPER",
	"382": "RPL_REHASHING",
	"383": "RPL_YOURESERVICE",
	"391": "RPL_TIME",
	"392": "RPL_USERSSTART",
	"393": "RPL_USERS",
	"394": "RPL_ENDOFUSERS",
	"395": "RPL_NOUSERS",
	"200": "RPL_TRACELINK",
	"201": "RPL_TRACECONNECTING",
	"202": "RPL_TRACEHANDSHAKE",
	"203": "RPL_TRACEUNKNOWN",
	"204": "RPL_TRACEOPERATOR",
	"205": "RPL_TRACEUSER",
	"206": "RPL_TRACESERVER",
	"207": "RPL_TRACESERVICE",
	"208": "RPL_TRACENEWTYPE",
	"209": "RPL_TRACECLASS",
	"210": "RPL_TRACERECONNECT",
	"261": "RPL_TRACELOG",
	"262": "RPL_TRACEEND",
	"211": "RPL_STATSLINKINFO",
	"212": "RPL_STATSCOMMANDS",
	"219": "RPL_ENDOFSTATS",
	"242": "RPL_STATSUPTIME",
	"243": "RPL_STATSOLINE",
	"221": "RPL_UMODEIS",
	"234": "RPL_SERVLIST",
	"235": "RPL_SERVLISTEND",
	"251": "RPL_LUSERCLIENT",
	"252": "RPL_LUSEROP",
	"253": "RPL_LUSERUNKNOWN",
	"254": "RPL_LUSERCHANNELS",
	"255": "RPL_LUSERME",
	"256": "RPL_ADMINME",
	"257": "RPL_ADMINLOC1",
	"258": "RPL_ADMINLOC2",
	"259": "RPL_ADMINEMAIL",
	"263": "RPL_TRYAGAIN",
	"401": "ERR_NOSUCHNICK",
	"402": "ERR_NOSUCHSERVER",
	"403": "ERR_NOSUCHCHANNEL",
	"404": "ERR_CANNOTSENDTOCHAN",
	"405": "ERR_TOOMANYCHANNELS",
	"406": "ERR_WASNOSUCHNICK",
	"407": "ERR_TOOMANYTARGETS",
	"408": "ERR_NOSUCHSERVICE",
	"409": "ERR_NOORIGIN",
	"411": "ERR_NORECIPIENT",
	"412": "ERR_NOTEXTTOSEND",
	"413": "ERR_NOTOPLEVEL",
	"414": "ERR_WILDTOPLEVEL",
	"415": "ERR_BADMASK",
	"421": "ERR_UNKNOWNCOMMAND",
	"422": "ERR_NOMOTD",
	"423": "ERR_NOADMININFO",
	"424": "ERR_FILEERROR",
	"431": "ERR_NONICKNAMEGIVEN",
	"432": "ERR_ERRONEUSNICKNAME",
	"433": "ERR_NICKNAMEINUSE",
	"436": "ERR_NICKCOLLISION",
	"437": "ERR_UNAVAILRESOURCE",
	"441": "ERR_USERNOTINCHANNEL",
	"442": "ERR_NOTONCHANNEL",
	"443": "ERR_USERONCHANNEL",
	"444": "ERR_NOLOGIN",
	"445": "ERR_SUMMONDISABLED",
	"446": "ERR_USERSDISABLED",
	"451": "ERR_NOTREGISTERED",
	"461": "ERR_NEEDMOREPARAMS",
	"462": "ERR_ALREADYREGISTRED",
	"463": "ERR_NOPERMFORHOST",
	"464": "ERR_PASSWDMISMATCH",
	"465": "ERR_YOUREBANNEDCREEP",
	"466": "ERR_YOUWILLBEBANNED",
	"467": "ERR_KEYSET",
	"471": "ERR_CHANNELISFULL",
	"472": "ERR_UNKNOWNMODE",
	"473": "ERR_INVITEONLYCHAN",
	"474": "ERR_BANNEDFROMCHAN",
	"475": "ERR_BADCHANNELKEY",
	"476": "ERR_BADCHANMASK",
	"477": "ERR_NOCHANMODES",
	"478": "ERR_BANLISTFULL",
	"481": "ERR_NOPRIVILEGES",
	"482": "ERR_CHANOPRIVSNEEDED",
	"483": "ERR_CANTKILLSERVER",
	"484": "ERR_RESTRICTED",
	"485": "ERR_UNIQOPPRIVSNEEDED",
	"491": "ERR_NOOPERHOST",
	"501": "ERR_UMODEUNKNOWNFLAG",
	"502": "ERR_USERSDONTMATCH",

	// 5.3 Reserved Numerics
	"231": "RPL_SERVICEINFO",
	"232": "RPL_ENDOFSERVICES",
	"233": "RPL_SERVICE",
	"300": "RPL_NONE",
	"316": "RPL_WHOISCHANOP",
	"361": "RPL_KILLDONE",
	"362": "RPL_CLOSING",
	"363": "RPL_CLOSEEND",
	"373": "RPL_INFOSTART",
	"384": "RPL_MYPORTIS",
	"213": "RPL_STATSCLINE",
	"214": "RPL_STATSNLINE",
	"215": "RPL_STATSILINE",
	"216": "RPL_STATSKLINE",
	"217": "RPL_STATSQLINE",
	"218": "RPL_STATSYLINE",
	"240": "RPL_STATSVLINE",
	"241": "RPL_STATSLLINE",
	"244": "RPL_STATSHLINE",
	"246": "RPL_STATSPING",
	"247": "RPL_STATSBLINE",
	"250": "RPL_STATSDLINE",
	"492": "ERR_NOSERVICEHOST",
}
